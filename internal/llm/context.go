package llm

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const contextKeyRequestID contextKey = "llm.req_id"

// WithRequestID attaches the id logged with every line of one model call.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, reqID)
}

// RequestIDFromContext returns the call id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if reqID, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// ensureRequestID returns ctx carrying a call id, minting one if needed.
func ensureRequestID(ctx context.Context) (context.Context, string) {
	if reqID := RequestIDFromContext(ctx); reqID != "" {
		return ctx, reqID
	}
	reqID := uuid.New().String()
	return WithRequestID(ctx, reqID), reqID
}
