package common

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const ContextKeyRequestID contextKey = "request_id"

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// EnsureRequestID stores id on ctx, generating a UUID when id is blank.
func EnsureRequestID(ctx context.Context, id string) (context.Context, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	return WithRequestID(ctx, id), id
}

// LoggerFrom returns logger tagged with the request ID carried by ctx, if any.
func LoggerFrom(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RequestIDFromContext(ctx); id != "" {
		return logger.With("request_id", id)
	}
	return logger
}

// WithTimeout is context.WithTimeout, except a non-positive timeout yields a
// cancelable context with no deadline.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
