package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leasectl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("contract constants", func(t *testing.T) {
		require.Equal(t, "D", cfg.Contract.ChainID)
		require.Equal(t, uint64(60_000_000), cfg.Contract.GasLimit)
		require.Equal(t, uint64(1_000_000_000), cfg.Contract.GasPrice)
		require.Equal(t, "erd", cfg.Contract.AddressHRP)
	})

	t.Run("reconciliation timing", func(t *testing.T) {
		require.Equal(t, 6*time.Second, cfg.Client.SettleDelay.Duration())
		require.Equal(t, 2*time.Second, cfg.Client.PollInterval.Duration())
	})

	t.Run("valid once address is set", func(t *testing.T) {
		c := DefaultConfig()
		c.Contract.Address = "erd1contract"
		require.NoError(t, c.Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
[gateway]
url = "https://devnet-gateway.multiversx.com"
ws_url = "wss://devnet-gateway.multiversx.com/status"
request_timeout = "30s"

[contract]
address = "erd1qqqqqqqqqqqqqpgqcontract"
chain_id = "D"
gas_limit = 60000000
gas_price = 1000000000
address_hrp = "erd"

[client]
settle_delay = "6s"
poll_interval = "2s"

[logging]
level = "debug"
format = "json"
output = "stdout"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "https://devnet-gateway.multiversx.com", cfg.Gateway.URL)
		require.Equal(t, "wss://devnet-gateway.multiversx.com/status", cfg.Gateway.WSURL)
		require.Equal(t, 30*time.Second, cfg.Gateway.RequestTimeout.Duration())
		require.Equal(t, "erd1qqqqqqqqqqqqqpgqcontract", cfg.Contract.Address)
		require.Equal(t, "debug", cfg.Logging.Level)
		require.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeConfig(t, `
[contract]
address = "erd1contract"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "D", cfg.Contract.ChainID)
		require.Equal(t, 6*time.Second, cfg.Client.SettleDelay.Duration())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		require.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeConfig(t, `[contract`)
		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := writeConfig(t, `
[contract]
address = "erd1contract"
gas_limit = 0
`)
		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrZeroGasLimit)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		c := DefaultConfig()
		c.Contract.Address = "erd1contract"
		return c
	}

	t.Run("empty contract address", func(t *testing.T) {
		c := DefaultConfig()
		require.ErrorIs(t, c.Validate(), ErrEmptyContractAddress)
	})

	t.Run("empty gateway url", func(t *testing.T) {
		c := valid()
		c.Gateway.URL = ""
		require.ErrorIs(t, c.Validate(), ErrEmptyGatewayURL)
	})

	t.Run("non positive settle delay", func(t *testing.T) {
		c := valid()
		c.Client.SettleDelay = 0
		require.ErrorIs(t, c.Validate(), ErrInvalidSettleDelay)
	})

	t.Run("non positive poll interval", func(t *testing.T) {
		c := valid()
		c.Client.PollInterval = Duration(-time.Second)
		require.ErrorIs(t, c.Validate(), ErrInvalidPollInterval)
	})

	t.Run("bad log level", func(t *testing.T) {
		c := valid()
		c.Logging.Level = "verbose"
		require.ErrorIs(t, c.Validate(), ErrInvalidLogLevel)
	})

	t.Run("metrics validated only when enabled", func(t *testing.T) {
		c := valid()
		c.Metrics.Namespace = ""
		require.NoError(t, c.Validate())

		c.Metrics.Enabled = true
		require.ErrorIs(t, c.Validate(), ErrEmptyMetricsNamespace)
	})

	t.Run("tracing exporter checked when enabled", func(t *testing.T) {
		c := valid()
		c.Tracing.Enabled = true
		c.Tracing.Exporter = "jaeger"
		require.ErrorIs(t, c.Validate(), ErrInvalidTracingExporter)
	})

	t.Run("sample rate bounds", func(t *testing.T) {
		c := valid()
		c.Tracing.Enabled = true
		c.Tracing.Exporter = "none"
		c.Tracing.SampleRate = 1.5
		require.ErrorIs(t, c.Validate(), ErrInvalidSampleRate)
	})
}

func TestDurationRoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	require.Equal(t, 90*time.Second, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1m30s", string(text))
}
