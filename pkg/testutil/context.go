package testutil

import (
	"net/http"

	"darksecrets/pkg/requestcontext"
)

// WithClientOrigin adds a raw client origin to the request context. This
// simulates what the origin middleware would do for a real request.
func WithClientOrigin(req *http.Request, origin string) *http.Request {
	return req.WithContext(requestcontext.WithClientOrigin(req.Context(), origin))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
