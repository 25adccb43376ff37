package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements Store with per-key fixed windows. Counters reset
// lazily when a request arrives after the window elapsed, so no background
// sweeper is needed for correctness.
type InMemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	count   int64
	startAt time.Time
}

// NewInMemoryStore creates an empty in-memory limiter store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (s *InMemoryStore) Incr(_ context.Context, key string, windowSize time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.windows[key]
	if w == nil || now.Sub(w.startAt) >= windowSize {
		w = &window{startAt: now}
		s.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// Sweep drops windows older than windowSize. Called periodically by the
// owner to bound memory on long-running processes.
func (s *InMemoryStore) Sweep(windowSize time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-windowSize)
	for key, w := range s.windows {
		if w.startAt.Before(cutoff) {
			delete(s.windows, key)
		}
	}
}
