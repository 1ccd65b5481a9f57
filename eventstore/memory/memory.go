// Package memory provides an in-memory implementation of the
// stripekit.EventStore interface. Suitable for single-process deployments
// and tests; state is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"
)

// Store implements stripekit.EventStore with a mutex-guarded map.
type Store struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	ttl     time.Duration
	marks   int
	nowFunc func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long processed event IDs are remembered.
// Stripe retries deliveries for up to three days; the default of 72h
// covers the full redelivery window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New creates an in-memory event store.
func New(opts ...Option) *Store {
	s := &Store{
		seen:    make(map[string]time.Time),
		ttl:     72 * time.Hour,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkProcessed records the event ID and reports whether it was already
// recorded within the TTL window.
func (s *Store) MarkProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()

	// Expired entries are swept lazily so no background goroutine is
	// needed; the map stays bounded by delivery volume within one TTL.
	s.marks++
	if s.marks%1000 == 0 {
		for id, at := range s.seen {
			if now.Sub(at) > s.ttl {
				delete(s.seen, id)
			}
		}
	}

	if at, ok := s.seen[eventID]; ok && now.Sub(at) <= s.ttl {
		return true, nil
	}
	s.seen[eventID] = now
	return false, nil
}

// Size returns the number of remembered event IDs, for monitoring.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
