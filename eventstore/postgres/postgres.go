// Package postgres provides a PostgreSQL implementation of the
// stripekit.EventStore interface. The mark-and-check is a single INSERT ON
// CONFLICT DO NOTHING, so it is atomic across processes sharing the table.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements stripekit.EventStore using PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	config Config

	stopCleanup func()
}

// Config holds PostgreSQL event store configuration.
type Config struct {
	// ConnectionString is the PostgreSQL connection string.
	ConnectionString string

	// Table is the table name (default: "stripe_webhook_events").
	Table string

	// TTL is how long processed event IDs are remembered (default: 72h).
	TTL time.Duration

	// CleanupInterval is how often expired rows are deleted (default: 1h).
	// Set CleanupEnabled to false to manage retention externally.
	CleanupEnabled  bool
	CleanupInterval time.Duration

	// Pool configuration.
	MaxConns int32
	MinConns int32
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Table:           "stripe_webhook_events",
		TTL:             72 * time.Hour,
		CleanupEnabled:  true,
		CleanupInterval: time.Hour,
		MaxConns:        10,
		MinConns:        2,
	}
}

// Schema returns the DDL for the event table, for use in migrations.
func Schema(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	event_id     TEXT PRIMARY KEY,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, table)
}

// New creates a PostgreSQL event store and ensures the table exists.
func New(ctx context.Context, config Config) (*Store, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required")
	}
	defaults := DefaultConfig()
	if config.Table == "" {
		config.Table = defaults.Table
	}
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if config.MaxConns <= 0 {
		config.MaxConns = defaults.MaxConns
	}
	if config.MinConns <= 0 {
		config.MinConns = defaults.MinConns
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = config.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if _, err := pool.Exec(ctx, Schema(config.Table)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure event table: %w", err)
	}

	s := &Store{pool: pool, config: config}
	if config.CleanupEnabled {
		cleanupCtx, cancel := context.WithCancel(context.Background())
		s.stopCleanup = cancel
		go s.cleanupLoop(cleanupCtx)
	}
	return s, nil
}

// MarkProcessed inserts the event ID and reports whether the row already
// existed.
func (s *Store) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (event_id) VALUES ($1) ON CONFLICT (event_id) DO NOTHING`,
		s.config.Table,
	)
	tag, err := s.pool.Exec(ctx, query, eventID)
	if err != nil {
		return false, fmt.Errorf("insert event: %w", err)
	}
	return tag.RowsAffected() == 0, nil
}

// Close stops the cleanup goroutine and releases the connection pool.
func (s *Store) Close() {
	if s.stopCleanup != nil {
		s.stopCleanup()
	}
	s.pool.Close()
}

func (s *Store) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			query := fmt.Sprintf(
				`DELETE FROM %s WHERE processed_at < now() - $1::interval`,
				s.config.Table,
			)
			interval := fmt.Sprintf("%d seconds", int64(s.config.TTL.Seconds()))
			_, _ = s.pool.Exec(ctx, query, interval)
		}
	}
}
