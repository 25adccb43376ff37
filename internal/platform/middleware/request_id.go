// Package middleware holds the HTTP middleware chain: request IDs, client
// origin extraction, request logging, panic recovery, and write throttling.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"darksecrets/pkg/requestcontext"
)

// RequestIDHeader carries the request ID back to the caller.
const RequestIDHeader = "X-Request-Id"

// RequestID assigns each request a UUID, honoring one supplied by an
// upstream proxy. Applied first so every log line can carry it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
