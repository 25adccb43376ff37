package middleware

import (
	"log/slog"
	"net/http"

	"darksecrets/internal/analytics"
	"darksecrets/internal/ratelimit"
	rlmetrics "darksecrets/internal/ratelimit/metrics"
	"darksecrets/pkg/requestcontext"
)

// Hasher matches the identity hasher; the limiter keys on hashed origins so
// raw IPs never appear in limiter storage.
type Hasher interface {
	Hash(originRaw string) string
}

// Throttle limits write requests per origin. Limiter store failures fail
// open: a broken Redis must not take writes down with it. m may be nil.
func Throttle(limiter *ratelimit.Limiter, hasher Hasher, logger *slog.Logger, rec analytics.Recorder, m *rlmetrics.Metrics) func(http.Handler) http.Handler {
	if rec == nil {
		rec = analytics.Noop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := hasher.Hash(requestcontext.ClientOrigin(ctx))

			allowed, err := limiter.Allow(ctx, key)
			if err != nil {
				m.IncStoreError()
				logger.ErrorContext(ctx, "rate limiter unavailable, failing open",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				m.IncThrottled()
				logger.WarnContext(ctx, "write throttled",
					"request_id", requestcontext.RequestID(ctx),
				)
				rec.Record(ctx, analytics.Event{Name: analytics.EventRequestThrottled})
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","error_description":"too many requests, slow down"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
