// Package analytics emits usage events to an external sink. Emission is
// best-effort: a failed or slow sink must never fail or delay the business
// operation that produced the event, so errors are logged and swallowed.
package analytics

import (
	"context"
	"time"
)

// Event names mirror the operations the service counts.
const (
	EventSecretCreated    = "secret_created"
	EventCommentAdded     = "comment_added"
	EventRatingSubmitted  = "rating_submitted"
	EventMalformedCursor  = "malformed_cursor"
	EventRequestThrottled = "request_throttled"
)

// Event is one usage occurrence.
type Event struct {
	Name       string    `json:"name"`
	SecretID   string    `json:"secretId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Recorder accepts events for delivery. Implementations must be safe for
// concurrent use and must not block the caller on sink failures.
type Recorder interface {
	Record(ctx context.Context, event Event)
	Close()
}

// Noop discards all events. Used when no analytics sink is configured.
type Noop struct{}

func (Noop) Record(context.Context, Event) {}
func (Noop) Close()                        {}
