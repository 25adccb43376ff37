package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	WritesThrottled    prometheus.Counter
	LimiterStoreErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		WritesThrottled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "darksecrets_ratelimit_writes_throttled_total",
			Help: "Write requests rejected with 429 by the per-origin limiter",
		}),
		LimiterStoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "darksecrets_ratelimit_store_errors_total",
			Help: "Limiter store failures; the limiter fails open on these",
		}),
	}
}

// IncThrottled is nil-safe so throttling works without metrics in tests.
func (m *Metrics) IncThrottled() {
	if m == nil {
		return
	}
	m.WritesThrottled.Inc()
}

func (m *Metrics) IncStoreError() {
	if m == nil {
		return
	}
	m.LimiterStoreErrors.Inc()
}
