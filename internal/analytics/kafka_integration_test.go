//go:build integration

package analytics_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"darksecrets/internal/analytics"
	"darksecrets/pkg/testutil/containers"
)

func TestKafkaRecorderDeliversEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.GetManager().GetRedpanda(t).Broker
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	const topic = "darksecrets.analytics.test"
	rec, err := analytics.NewKafkaRecorder(ctx, []string{broker}, topic, logger)
	require.NoError(t, err)

	rec.Record(ctx, analytics.Event{Name: analytics.EventSecretCreated, SecretID: "sec_1"})
	rec.Record(ctx, analytics.Event{Name: analytics.EventRatingSubmitted, SecretID: "sec_1"})
	rec.Close()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	deadline, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	events := make(map[string]analytics.Event)
	for len(events) < 2 {
		fetches := consumer.PollFetches(deadline)
		require.Empty(t, fetches.Errors())
		fetches.EachRecord(func(r *kgo.Record) {
			var ev analytics.Event
			require.NoError(t, json.Unmarshal(r.Value, &ev))
			events[ev.Name] = ev
		})
	}

	created := events[analytics.EventSecretCreated]
	require.Equal(t, "sec_1", created.SecretID)
	require.False(t, created.OccurredAt.IsZero())
	require.Contains(t, events, analytics.EventRatingSubmitted)
}
