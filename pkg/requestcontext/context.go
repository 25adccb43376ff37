// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; handlers and services read
// them without importing net/http.
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey    struct{}
	clientOriginKey struct{}
	requestTimeKey  struct{}
)

// RequestID retrieves the request ID from the context, or "" if unset.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ClientOrigin retrieves the raw client origin (IP) from the context, or ""
// if unset. The raw value is hashed before it reaches any store.
func ClientOrigin(ctx context.Context) string {
	if origin, ok := ctx.Value(clientOriginKey{}).(string); ok {
		return origin
	}
	return ""
}

// WithClientOrigin injects the raw client origin into the context.
func WithClientOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, clientOriginKey{}, origin)
}

// Now returns the request time from the context, falling back to the wall
// clock. Tests inject fixed times with WithTime.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed request time into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
