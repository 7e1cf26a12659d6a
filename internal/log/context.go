package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const correlationIDKey ctxKey = "correlation_id"

// ContextWithCorrelationID stores a caller-chosen correlation ID in the context.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext extracts the correlation ID from context if present.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(correlationIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext enriches the supplied logger with correlation fields from context.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	cid := CorrelationIDFromContext(ctx)
	if cid == "" {
		return logger
	}
	return logger.With().Str(FieldCorrelationID, cid).Logger()
}
