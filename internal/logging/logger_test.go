package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/formwork/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(name), name)
	}
}

func TestNewNop(t *testing.T) {
	logger := logging.NewNop()
	assert.NotPanics(t, func() { logger.Error("discarded", "error", "boom") })
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Warn("detach failed", "node", "vat", "error", "boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "node=vat")
	assert.Contains(t, out, "err=boom")
	assert.NotContains(t, out, "error=boom")
}
