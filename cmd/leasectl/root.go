// leasectl is a command-line client for the lease agreement contract.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/blockberries/leaseberry/client"
	"github.com/blockberries/leaseberry/config"
	"github.com/blockberries/leaseberry/gateway"
	"github.com/blockberries/leaseberry/logging"
	"github.com/blockberries/leaseberry/metrics"
	"github.com/blockberries/leaseberry/tracing"
	"github.com/blockberries/leaseberry/types"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	GitCommit = "unknown"

	// Global flags
	cfgFile    string
	callerAddr string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "leasectl",
	Short: "Lease agreement contract client",
	Long: `leasectl interacts with a lease agreement smart contract through a
ledger gateway: it creates agreements, accepts them, pays rent, submits
deposit decisions and inspects on-chain state.`,
	Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "leasectl.toml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&callerAddr, "address", "a", "", "caller address for write operations")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(decideCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
}

// identity adapts the --address flag to the client's Identity interface.
// Signing is the wallet's concern and stays outside this tool.
type identity string

func (i identity) Address() types.Address {
	return types.Address(i)
}

// newLogger builds the logger from configuration, honoring --verbose.
func newLogger(cfg *config.Config) *logging.Logger {
	level := slog.LevelInfo
	if verbose || cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}

	out := os.Stderr
	if cfg.Logging.Output == "stdout" {
		out = os.Stdout
	}

	if cfg.Logging.Format == "json" {
		return logging.NewJSONLogger(out, level)
	}
	return logging.NewTextLogger(out, level)
}

// newClient loads configuration and constructs a started contract client.
// The returned stop function must be called before exit.
func newClient() (*client.Client, *config.Config, func(), error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := newLogger(cfg)

	var mets metrics.Metrics = metrics.NewNopMetrics()
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheusMetrics(cfg.Metrics.Namespace)
		mets = prom
		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server stopped", logging.Error(err))
			}
		}()
	}

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.ProviderFromConfig(cfg.Tracing)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	provider := gateway.NewHTTPGateway(cfg.Gateway.URL, types.Address(cfg.Contract.Address),
		gateway.WithLogger(logger),
		gateway.WithMetrics(mets),
	)

	c, err := client.New(cfg, provider, identity(callerAddr),
		client.WithLogger(logger),
		client.WithMetrics(mets),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := c.Start(); err != nil {
		return nil, nil, nil, err
	}

	stop := func() {
		_ = c.Stop()
		if metricsSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = metricsSrv.Shutdown(ctx)
			cancel()
		}
		if tp != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = tracing.Shutdown(ctx, tp)
			cancel()
		}
	}
	return c, cfg, stop, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
