// Package logging configures structured logging and carries request-scoped loggers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// New builds the process logger for the given mode.
// Production writes JSON at info level; dev and demo write text at debug level.
func New(mode string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if mode == "prod" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type loggerKey struct{}

// FromContext extracts the logger from context, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// ToContext adds the logger to context.
func ToContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}
