package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"darksecrets/pkg/platform/circuit"
)

// KafkaRecorder publishes events to a Kafka topic with async produces.
// Delivery failures are logged and dropped; analytics never gates writes.
// A breaker stops produces entirely while the broker is persistently down.
type KafkaRecorder struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	breaker *circuit.Breaker
	dropped atomic.Int64
}

// NewKafkaRecorder connects to the given brokers and makes sure the topic
// exists. Topic creation is best-effort: a cluster that disallows it just
// logs a warning and relies on auto-creation or operator setup.
func NewKafkaRecorder(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*KafkaRecorder, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, err
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		logger.WarnContext(ctx, "could not ensure analytics topic",
			"topic", topic,
			"error", err,
		)
	}

	return &KafkaRecorder{
		client:  client,
		topic:   topic,
		logger:  logger,
		breaker: circuit.New("analytics-kafka", circuit.WithFailureThreshold(10)),
	}, nil
}

// probeInterval lets one in every N events through an open breaker so a
// recovered broker closes it again.
const probeInterval = 50

func (r *KafkaRecorder) Record(ctx context.Context, event Event) {
	if r.breaker.IsOpen() {
		if r.dropped.Add(1)%probeInterval != 0 {
			return
		}
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.WarnContext(ctx, "drop analytics event", "name", event.Name, "error", err)
		return
	}

	record := &kgo.Record{Topic: r.topic, Key: []byte(event.Name), Value: payload}
	r.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			r.logger.Warn("analytics publish failed", "name", event.Name, "error", err)
			if _, change := r.breaker.RecordFailure(); change.Opened {
				r.logger.Warn("analytics publishing suspended", "breaker", r.breaker.Name())
			}
			return
		}
		if _, change := r.breaker.RecordSuccess(); change.Closed {
			r.logger.Info("analytics publishing resumed", "breaker", r.breaker.Name())
		}
	})
}

// Close flushes pending produces briefly, then releases the client.
func (r *KafkaRecorder) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = r.client.Flush(ctx)
	r.client.Close()
}
