package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/listly/internal/model"
)

func TestNew_Formats(t *testing.T) {
	var text, js bytes.Buffer
	New("info", "text", &text).Info("hello")
	New("info", "json", &js).Info("hello")

	assert.Contains(t, text.String(), "level=INFO")
	assert.Contains(t, js.String(), `"msg":"hello"`)
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "text", &buf)
	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestOpen_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "listly.log")
	logger, closeLog, err := Open(model.LogConfig{Level: "info", Format: "text", Path: path})
	require.NoError(t, err)

	logger.Info("opened", slog.String("list_id", "l1"))
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "list_id=l1")
}

func TestContextRoundTrip(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	logger := New("info", "text", &bytes.Buffer{})
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
