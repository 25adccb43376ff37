// Package ratelimit provides the fixed-window request limiter consulted
// before secret creation. Keys are origin hashes, never raw origins.
package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key within fixed windows.
type Store interface {
	// Incr increments key's counter for the current window and returns the
	// post-increment count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter enforces a request budget per key per window.
type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// New creates a limiter allowing limit requests per window per key.
func New(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: int64(limit), window: window}
}

// Allow records one request for key and reports whether it fits the budget.
// Store failures propagate so the caller can decide to fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}
