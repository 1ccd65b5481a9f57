// Package stripekit is a convenience wrapper around the Stripe API.
// It forwards CRUD calls for products, prices, customers, subscriptions,
// checkout and billing-portal sessions, and verifies and dispatches webhook
// deliveries to caller-registered callbacks.
package stripekit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v83"
)

// Dispatcher verifies webhook deliveries and routes them to registered
// callbacks. One delivery is one synchronous unit of work: verification,
// parsing and handler invocation happen in order on the calling goroutine.
// Concurrent deliveries and concurrent handler registration are safe.
type Dispatcher struct {
	secret   string
	registry *registry
	store    EventStore
	log      Logger
	metrics  Metrics

	maxBodyBytes int64
	rateLimiter  *rateLimiter
}

// NewDispatcher creates a webhook dispatcher. An empty WebhookSecret is
// allowed at construction; ProcessWebhook then fails with ErrNotConfigured.
func NewDispatcher(config Config) *Dispatcher {
	return &Dispatcher{
		secret:       strings.TrimSpace(config.WebhookSecret),
		registry:     newRegistry(),
		store:        config.EventStore,
		log:          config.logger(),
		metrics:      config.metrics(),
		maxBodyBytes: config.maxBodyBytes(),
		rateLimiter:  newRateLimiter(defaultRateLimitRequests, time.Minute),
	}
}

// RegisterHandler registers fn for eventType, replacing any previous
// handler for that type. Use WildcardEvent to match every delivery.
func (d *Dispatcher) RegisterHandler(eventType string, fn HandlerFunc) {
	d.registry.register(eventType, fn)
	d.log.Info("registered webhook handler", Field{"event_type", eventType})
}

// UnregisterHandler removes the handler for eventType.
// Unregistering a type that was never registered is a no-op.
func (d *Dispatcher) UnregisterHandler(eventType string) {
	if d.registry.unregister(eventType) {
		d.log.Info("unregistered webhook handler", Field{"event_type", eventType})
	} else {
		d.log.Info("no webhook handler to unregister", Field{"event_type", eventType})
	}
}

// ProcessWebhook verifies the signature, parses the payload and invokes the
// resolved handlers in order, each passed the event's object. Verification
// and parse failures abort the delivery with ErrSignatureMismatch or
// ErrMalformedPayload. Handler failures are logged and contained; they never
// abort sibling handlers or the delivery. Returns the parsed Event.
func (d *Dispatcher) ProcessWebhook(ctx context.Context, payload []byte, sigHeader string) (*Event, error) {
	start := time.Now()

	if d.secret == "" {
		d.metrics.RecordWebhookError("not_configured")
		return nil, fmt.Errorf("%w: webhook secret missing", ErrNotConfigured)
	}

	if err := stripe.ValidatePayload(payload, sigHeader, d.secret); err != nil {
		d.log.Error("webhook signature verification failed", Field{"error", err.Error()})
		d.metrics.RecordWebhookError("signature_mismatch")
		return nil, fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
	}

	event, err := parseEvent(payload)
	if err != nil {
		d.log.Error("webhook payload parsing failed", Field{"error", err.Error()})
		d.metrics.RecordWebhookError("malformed_payload")
		return nil, err
	}

	d.log.Info("received stripe event",
		Field{"event_id", event.ID},
		Field{"event_type", event.Type})

	if d.store != nil {
		seen, err := d.store.MarkProcessed(ctx, event.ID)
		switch {
		case err != nil:
			// Losing dedup beats dropping deliveries.
			d.log.Warn("event store unavailable, dispatching without replay guard",
				Field{"event_id", event.ID},
				Field{"error", err.Error()})
		case seen:
			d.log.Info("duplicate event delivery, skipping dispatch",
				Field{"event_id", event.ID},
				Field{"event_type", event.Type})
			d.metrics.RecordWebhookEvent(event.Type, "duplicate")
			return event, nil
		}
	}

	handlers := d.registry.resolve(event.Type)
	if len(handlers) == 0 {
		d.log.Warn("no handlers registered for event", Field{"event_type", event.Type})
	}

	object := event.Object()
	for _, fn := range handlers {
		if err := invokeHandler(ctx, fn, object); err != nil {
			d.log.Error("webhook handler failed",
				Field{"event_id", event.ID},
				Field{"event_type", event.Type},
				Field{"error", err.Error()})
			d.metrics.RecordWebhookError("handler_failure")
			continue
		}
		d.log.Debug("webhook handler executed", Field{"event_type", event.Type})
	}

	d.metrics.RecordWebhookEvent(event.Type, "success")
	d.metrics.RecordWebhookProcessingDuration(event.Type, time.Since(start))
	return event, nil
}

// invokeHandler runs one callback, converting a panic into an error so a
// broken integration cannot take down the delivery or its siblings.
func invokeHandler(ctx context.Context, fn HandlerFunc, object map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return fn(ctx, object)
}
