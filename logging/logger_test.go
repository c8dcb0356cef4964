package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelInfo)
	require.NotNil(t, logger)

	logger.Info("test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key=value")
}

func TestNewJSONLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSONLogger(buf, slog.LevelInfo)
	require.NotNil(t, logger)

	logger.Info("test message", "key", "value")

	var parsed map[string]any
	err := json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)
	assert.Equal(t, "test message", parsed["msg"])
	assert.Equal(t, "value", parsed["key"])
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	require.NotNil(t, logger)

	// NopLogger should not panic and should discard all output
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelInfo)

	childLogger := logger.With("parent_key", "parent_value")
	require.NotNil(t, childLogger)

	childLogger.Info("child message", "child_key", "child_value")

	output := buf.String()
	assert.Contains(t, output, "parent_key=parent_value")
	assert.Contains(t, output, "child_key=child_value")
}

func TestLogger_WithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelInfo)

	compLogger := logger.WithComponent("tracker")
	compLogger.Info("component message")

	output := buf.String()
	assert.Contains(t, output, "component=tracker")
}

func TestAttributeConstructors(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		expected string
	}{
		{"Component", Component("client"), "component=client"},
		{"AgreementID", AgreementID(7), "agreement_id=7"},
		{"TxHash", TxHash("abc123"), "tx_hash=abc123"},
		{"Handle", Handle("h-1"), "handle=h-1"},
		{"Function", Function("getContractDetails"), "function=getContractDetails"},
		{"Address", Address("erd1sender"), "address=erd1sender"},
		{"Status", Status("Active"), "status=Active"},
		{"TxStatus", TxStatus("success"), "tx_status=success"},
		{"ChainID", ChainID("D"), "chain_id=D"},
		{"Count", Count(42), "count=42"},
		{"Pending", Pending(3), "pending=3"},
		{"Fields", Fields(11), "fields=11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewTextLogger(buf, slog.LevelInfo)
			logger.Info("test", tt.attr)

			output := buf.String()
			assert.Contains(t, output, tt.expected)
		})
	}
}

func TestDurationAttribute(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSONLogger(buf, slog.LevelInfo)

	d := 150 * time.Millisecond
	logger.Info("test", Duration(d))

	var parsed map[string]any
	err := json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)
	assert.InDelta(t, 150.0, parsed["duration_ms"], 0.1)
}

func TestErrorAttribute(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelInfo)

	logger.Info("test", Error(assert.AnError))

	output := buf.String()
	assert.Contains(t, output, "error=")
}

func TestErrorAttribute_Nil(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelInfo)

	// Nil error should produce empty attribute
	logger.Info("test", Error(nil))

	output := buf.String()
	assert.NotContains(t, output, "error=")
}

func TestLogLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, h.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, h.Handle(context.Background(), slog.Record{}))
	assert.Equal(t, h, h.WithAttrs(nil))
	assert.Equal(t, h, h.WithGroup("test"))
}

func TestChainedWith(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelInfo)

	chainedLogger := logger.
		WithComponent("gateway").
		With("custom", "value")

	chainedLogger.Info("chained message")

	output := buf.String()
	assert.Contains(t, output, "component=gateway")
	assert.Contains(t, output, "custom=value")
	assert.Contains(t, output, "chained message")
}
