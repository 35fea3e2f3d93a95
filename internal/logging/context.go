package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type contextKey struct{}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}
