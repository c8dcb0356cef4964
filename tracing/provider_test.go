package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockberries/leaseberry/config"
)

func TestDefaultProviderConfig(t *testing.T) {
	cfg := DefaultProviderConfig()

	require.Equal(t, "leaseberry", cfg.ServiceName)
	require.Equal(t, "0.0.0", cfg.ServiceVersion)
	require.Equal(t, "none", cfg.Exporter)
	require.Equal(t, 0.1, cfg.SampleRate)
}

func TestNewProvider_None(t *testing.T) {
	cfg := ProviderConfig{
		ServiceName: "test-service",
		Exporter:    "none",
		SampleRate:  1.0,
	}

	provider, err := NewProvider(cfg)
	require.NoError(t, err)
	require.NotNil(t, provider)

	require.NoError(t, Shutdown(context.Background(), provider))
}

func TestNewProvider_Stdout(t *testing.T) {
	cfg := ProviderConfig{
		ServiceName: "test-service",
		Exporter:    "stdout",
		SampleRate:  1.0,
	}

	provider, err := NewProvider(cfg)
	require.NoError(t, err)
	require.NotNil(t, provider)

	require.NoError(t, Shutdown(context.Background(), provider))
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	cfg := ProviderConfig{
		ServiceName: "test-service",
		Exporter:    "invalid",
	}

	_, err := NewProvider(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown trace exporter")
}

func TestProviderFromConfig(t *testing.T) {
	t.Run("defaults fill empty fields", func(t *testing.T) {
		provider, err := ProviderFromConfig(config.TracingConfig{})
		require.NoError(t, err)
		require.NotNil(t, provider)
		require.NoError(t, Shutdown(context.Background(), provider))
	})

	t.Run("exporter from config", func(t *testing.T) {
		provider, err := ProviderFromConfig(config.TracingConfig{
			Exporter:   "stdout",
			SampleRate: 1.0,
		})
		require.NoError(t, err)
		require.NotNil(t, provider)
		require.NoError(t, Shutdown(context.Background(), provider))
	})
}

func TestShutdown_Nil(t *testing.T) {
	require.NoError(t, Shutdown(context.Background(), nil))
}
