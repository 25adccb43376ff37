package middleware

import (
	"fmt"
	"net/http"
	"time"

	"darksecrets/internal/platform/metrics"
)

// Metrics records request counts, latency, and in-flight gauge. Status is
// bucketed by class to keep label cardinality down.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			statusClass := fmt.Sprintf("%dxx", rec.status/100)
			m.RequestsTotal.WithLabelValues(r.Method, statusClass).Inc()
			m.RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
