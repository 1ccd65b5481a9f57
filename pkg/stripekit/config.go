package stripekit

const (
	// defaultMaxBodyBytes caps webhook payloads read off the wire.
	// Stripe events are small; anything near this limit is hostile.
	defaultMaxBodyBytes = 256 * 1024

	defaultRateLimitRequests = 100
)

// Config configures a Dispatcher, Handler or Manager.
type Config struct {
	// APIKey is the Stripe secret key (sk_test_... / sk_live_...).
	// Required by Manager and Handler; the Dispatcher alone does not use it.
	APIKey string

	// WebhookSecret is the webhook signing secret (whsec_...).
	// ProcessWebhook fails with ErrNotConfigured when it is empty.
	WebhookSecret string

	// Logger receives structured log records for every significant step.
	// If nil, logging is silently ignored (no-op).
	Logger Logger

	// Metrics is an optional collector for webhook and API call metrics.
	// If nil, metrics are silently ignored (no-op).
	// Use metrics/prometheus.DefaultMetrics(namespace) for Prometheus.
	Metrics Metrics

	// EventStore is an optional replay guard keyed by event ID.
	// If nil, duplicate deliveries are dispatched like any other.
	EventStore EventStore

	// MaxBodyBytes caps the request body read by WebhookHandler and the
	// framework adapters. Defaults to 256 KiB when zero.
	MaxBodyBytes int64
}

func (c Config) logger() Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return &NoopLogger{}
}

func (c Config) metrics() Metrics {
	if c.Metrics != nil {
		return c.Metrics
	}
	return &NoopMetrics{}
}

func (c Config) maxBodyBytes() int64 {
	if c.MaxBodyBytes > 0 {
		return c.MaxBodyBytes
	}
	return defaultMaxBodyBytes
}
