package middleware

import (
	"net/http"
	"strings"

	"darksecrets/pkg/requestcontext"
)

// ClientOrigin extracts the client IP and adds it to the context. The raw
// value only ever feeds the identity hasher and the rate limiter; it is
// never stored or logged.
func ClientOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientOrigin(r.Context(), OriginFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OriginFromRequest extracts the real client IP, handling proxies and load
// balancers.
func OriginFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs; the first is the original
	// client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" for IPv4 and "[::1]:port" for IPv6.
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}
