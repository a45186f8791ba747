package api

import "context"

type contextKey string

const (
	requestIDContextKey contextKey = "request_id"
	sessionIDContextKey contextKey = "session_id"
)

// RequestIDFromContext returns the request ID from the context, or empty string.
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDContextKey).(string); ok {
		return s
	}
	return ""
}

// WithRequestID returns a copy of ctx with the request ID set.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// SessionIDFromContext returns the session ID from the context, or empty string.
func SessionIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionIDContextKey).(string); ok {
		return s
	}
	return ""
}

// WithSessionID returns a copy of ctx with the session ID set.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, sessionID)
}
