// Package redis provides a Redis implementation of the stripekit.EventStore
// interface. The mark-and-check is a single SET NX with expiry, so it is
// atomic across any number of webhook-serving processes.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store implements stripekit.EventStore using Redis.
type Store struct {
	client redis.UniversalClient
	config Config
}

// Config holds Redis event store configuration.
type Config struct {
	// KeyPrefix is prepended to all Redis keys (default: "stripekit:event:").
	KeyPrefix string

	// TTL is how long processed event IDs are remembered (default: 72h,
	// Stripe's redelivery window).
	TTL time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		KeyPrefix: "stripekit:event:",
		TTL:       72 * time.Hour,
	}
}

// New creates a Redis event store.
// The client can be *redis.Client, *redis.ClusterClient, or *redis.Ring.
func New(client redis.UniversalClient, config Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultConfig().KeyPrefix
	}
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	return &Store{client: client, config: config}, nil
}

// MarkProcessed records the event ID with SET NX. A failed SET NX means the
// key already existed, i.e. the event was already processed.
func (s *Store) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	set, err := s.client.SetNX(ctx, s.config.KeyPrefix+eventID, 1, s.config.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return !set, nil
}
