// Package logging builds the application's slog logger and carries it
// through contexts.
//
// The TUI owns the terminal, so logs go to a file:
//
//	logger, closeLog, err := logging.Open(cfg.Log)
//	defer closeLog()
//	ctx = logging.WithLogger(ctx, logger)
//
// Failures are logged with the operation and the ids involved:
//
//	logging.FromContext(ctx).ErrorContext(ctx, "toggle failed",
//	    slog.String("operation", "ToggleListItem"),
//	    slog.String("item_id", id),
//	    slog.Any("error", err),
//	)
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhle/listly/internal/model"
)

type contextKey struct{}

// New creates a logger writing to w. Level is one of "debug", "info",
// "warn" or "error" (anything else means info). Format "json" selects the
// JSON handler, anything else the text handler.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Open creates a logger appending to cfg.Path. An empty path discards
// output. The returned func closes the file.
func Open(cfg model.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.Path == "" {
		return New(cfg.Level, cfg.Format, io.Discard), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.Path, err)
	}
	return New(cfg.Level, cfg.Format, f), f.Close, nil
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
