// Package logging provides structured logging configuration using log/slog.
//
// A generation run stores a logger carrying its run_id in the context, and
// chi's RequestID middleware adds request_id for preview server requests, so
// every log entry of a run or request can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey struct{}

// ctxLogger remembers which request id, if any, the logger already carries.
type ctxLogger struct {
	logger *slog.Logger
	reqID  string
}

// New builds a logger writing to w with the given level and format.
// The CLI passes stderr so that stdout stays free for the run summary.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, ctxLogger{logger: logger})
}

// WithRunID returns a context whose logger tags every entry with run_id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ctxLogger{
		logger: FromContext(ctx).With("run_id", runID),
		reqID:  middleware.GetReqID(ctx),
	})
}

// FromContext returns the logger stored in ctx, or the default logger.
//
// When ctx comes from a preview server request carrying a chi RequestID,
// the returned logger includes request_id in all log entries.
func FromContext(ctx context.Context) *slog.Logger {
	stored, ok := ctx.Value(ctxKey{}).(ctxLogger)
	logger := stored.logger
	if !ok || logger == nil {
		logger = slog.Default()
	}

	if reqID := middleware.GetReqID(ctx); reqID != "" && reqID != stored.reqID {
		logger = logger.With("request_id", reqID)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	rowLogger := logging.WithFields(ctx, "line", rec.Line, "id", id)
//	rowLogger.Warn("row skipped", "reason", reason)
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
