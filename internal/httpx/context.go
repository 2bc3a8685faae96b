package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	csrfTokenKey contextKey = "csrfToken"
)

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// CSRFTokenFrom retrieves the CSRF token to embed in rendered forms.
func CSRFTokenFrom(r *http.Request) string {
	if v, ok := r.Context().Value(csrfTokenKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithCSRFToken returns a new context carrying the CSRF token.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfTokenKey, token)
}
