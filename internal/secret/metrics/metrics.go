// Package metrics holds the Prometheus instruments for the secret feature.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts writes and observes operation latency.
type Metrics struct {
	SecretsCreated   prometheus.Counter
	CommentsAdded    prometheus.Counter
	RatingsSubmitted prometheus.Counter
	WritesRejected   *prometheus.CounterVec
	OpDuration       *prometheus.HistogramVec
}

// New creates and registers all secret metrics on the default registerer.
func New() *Metrics {
	return &Metrics{
		SecretsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "darksecrets_secrets_created_total",
			Help: "Total number of secrets accepted by the store",
		}),
		CommentsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "darksecrets_comments_added_total",
			Help: "Total number of comments accepted by the store",
		}),
		RatingsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "darksecrets_ratings_submitted_total",
			Help: "Total number of darkness ratings accepted, including re-ratings",
		}),
		WritesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "darksecrets_writes_rejected_total",
			Help: "Writes rejected before persistence, by reason",
		}, []string{"reason"}),
		OpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "darksecrets_store_op_duration_seconds",
			Help:    "Latency of content store operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// ObserveOp records the latency of one store operation.
func (m *Metrics) ObserveOp(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.OpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// IncRejected counts a rejected write by reason.
func (m *Metrics) IncRejected(reason string) {
	if m == nil {
		return
	}
	m.WritesRejected.WithLabelValues(reason).Inc()
}
