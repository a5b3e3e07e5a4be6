package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelTrace, ParseLevel("Trace"))
}

func TestNewLoggerLabelsTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(context.Background(), LevelTrace, "step", "n", 1)
	assert.Contains(t, buf.String(), "level=TRACE")
	assert.Contains(t, buf.String(), "n=1")
}

func TestNewLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
	require.Same(t, slog.Default(), FromContext(context.Background()))
}
