// Package config provides configuration for the leaseberry contract
// client. There is no ambient singleton: callers load a Config once and
// pass it to the components that need it.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the main configuration for the contract client.
type Config struct {
	Gateway  GatewayConfig  `toml:"gateway"`
	Contract ContractConfig `toml:"contract"`
	Client   ClientConfig   `toml:"client"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Logging  LoggingConfig  `toml:"logging"`
	Tracing  TracingConfig  `toml:"tracing"`
}

// GatewayConfig contains the ledger gateway endpoints.
type GatewayConfig struct {
	// URL is the base URL of the HTTP gateway.
	URL string `toml:"url"`

	// WSURL is the websocket status-stream endpoint. Empty disables the
	// stream; settlement then relies on polling alone.
	WSURL string `toml:"ws_url"`

	// RequestTimeout is the per-request HTTP timeout.
	RequestTimeout Duration `toml:"request_timeout"`
}

// ContractConfig identifies the deployed contract and the fixed request
// constants. All of these are configuration, never computed.
type ContractConfig struct {
	// Address is the deployed contract's address.
	Address string `toml:"address"`

	// ChainID is the network identifier attached to every transaction.
	ChainID string `toml:"chain_id"`

	// GasLimit is the gas budget attached to every contract call.
	GasLimit uint64 `toml:"gas_limit"`

	// GasPrice is the price per computation unit.
	GasPrice uint64 `toml:"gas_price"`

	// AddressHRP is the bech32 human-readable prefix for rendering raw
	// address bytes.
	AddressHRP string `toml:"address_hrp"`
}

// ClientConfig contains reconciliation timing.
type ClientConfig struct {
	// SettleDelay is the staleness buffer applied after settlement before
	// trusting a read, on the order of one ledger block. Deliberate: state
	// propagation lags transaction confirmation.
	SettleDelay Duration `toml:"settle_delay"`

	// PollInterval is the transaction status poll interval.
	PollInterval Duration `toml:"poll_interval"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled determines whether metrics collection is active.
	Enabled bool `toml:"enabled"`

	// Namespace is the Prometheus metrics namespace prefix.
	Namespace string `toml:"namespace"`

	// ListenAddr is the address to serve metrics on (e.g., ":9090").
	ListenAddr string `toml:"listen_addr"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `toml:"level"`

	// Format is the log output format ("text" or "json").
	Format string `toml:"format"`

	// Output is the log output destination ("stdout", "stderr", or a file path).
	Output string `toml:"output"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	// Enabled determines whether trace export is active.
	Enabled bool `toml:"enabled"`

	// Exporter is the exporter type: "otlp-http", "stdout" or "none".
	Exporter string `toml:"exporter"`

	// Endpoint is the exporter endpoint for OTLP.
	Endpoint string `toml:"endpoint"`

	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64 `toml:"sample_rate"`
}

// Duration is a wrapper around time.Duration for TOML unmarshaling.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a Config with sensible default values.
// The settle delay defaults to one ledger block interval.
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:            "https://devnet-gateway.example.net",
			WSURL:          "",
			RequestTimeout: Duration(15 * time.Second),
		},
		Contract: ContractConfig{
			Address:    "",
			ChainID:    "D",
			GasLimit:   60_000_000,
			GasPrice:   1_000_000_000,
			AddressHRP: "erd",
		},
		Client: ClientConfig{
			SettleDelay:  Duration(6 * time.Second),
			PollInterval: Duration(2 * time.Second),
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			Namespace:  "leaseberry",
			ListenAddr: ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Exporter:   "none",
			Endpoint:   "localhost:4318",
			SampleRate: 0.1,
		},
	}
}

// LoadConfig loads configuration from a TOML file.
// Missing values are filled with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validation errors.
var (
	ErrEmptyGatewayURL        = errors.New("gateway url cannot be empty")
	ErrInvalidRequestTimeout  = errors.New("request_timeout must be positive")
	ErrEmptyContractAddress   = errors.New("contract address cannot be empty")
	ErrEmptyChainID           = errors.New("chain_id cannot be empty")
	ErrZeroGasLimit           = errors.New("gas_limit must be positive")
	ErrZeroGasPrice           = errors.New("gas_price must be positive")
	ErrEmptyAddressHRP        = errors.New("address_hrp cannot be empty")
	ErrInvalidSettleDelay     = errors.New("settle_delay must be positive")
	ErrInvalidPollInterval    = errors.New("poll_interval must be positive")
	ErrEmptyMetricsNamespace  = errors.New("metrics namespace cannot be empty when enabled")
	ErrEmptyMetricsListenAddr = errors.New("metrics listen_addr cannot be empty when enabled")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("log format must be 'text' or 'json'")
	ErrEmptyLogOutput         = errors.New("log output cannot be empty")
	ErrInvalidTracingExporter = errors.New("tracing exporter must be one of: otlp-http, stdout, none")
	ErrInvalidSampleRate      = errors.New("tracing sample_rate must be between 0 and 1")
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Gateway.Validate(); err != nil {
		return fmt.Errorf("gateway config: %w", err)
	}
	if err := c.Contract.Validate(); err != nil {
		return fmt.Errorf("contract config: %w", err)
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("client config: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("tracing config: %w", err)
	}
	return nil
}

// Validate checks the gateway configuration for errors.
func (c *GatewayConfig) Validate() error {
	if c.URL == "" {
		return ErrEmptyGatewayURL
	}
	if c.RequestTimeout.Duration() <= 0 {
		return ErrInvalidRequestTimeout
	}
	return nil
}

// Validate checks the contract configuration for errors.
func (c *ContractConfig) Validate() error {
	if c.Address == "" {
		return ErrEmptyContractAddress
	}
	if c.ChainID == "" {
		return ErrEmptyChainID
	}
	if c.GasLimit == 0 {
		return ErrZeroGasLimit
	}
	if c.GasPrice == 0 {
		return ErrZeroGasPrice
	}
	if c.AddressHRP == "" {
		return ErrEmptyAddressHRP
	}
	return nil
}

// Validate checks the client configuration for errors.
func (c *ClientConfig) Validate() error {
	if c.SettleDelay.Duration() <= 0 {
		return ErrInvalidSettleDelay
	}
	if c.PollInterval.Duration() <= 0 {
		return ErrInvalidPollInterval
	}
	return nil
}

// Validate checks the metrics configuration for errors.
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Namespace == "" {
		return ErrEmptyMetricsNamespace
	}
	if c.ListenAddr == "" {
		return ErrEmptyMetricsListenAddr
	}
	return nil
}

// Validate checks the logging configuration for errors.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.Format {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}
	if c.Output == "" {
		return ErrEmptyLogOutput
	}
	return nil
}

// Validate checks the tracing configuration for errors.
func (c *TracingConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Exporter {
	case "otlp-http", "stdout", "none":
	default:
		return ErrInvalidTracingExporter
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	return nil
}
