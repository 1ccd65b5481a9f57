package stripekit

import "context"

// EventStore guards against duplicate webhook deliveries. Stripe redelivers
// events until acknowledged, so the same event ID can arrive more than once.
//
// Implementations live under eventstore/ (memory, redis, postgres).
// Configuring a store is optional; without one every delivery is dispatched.
type EventStore interface {
	// MarkProcessed records the event ID and reports whether it had
	// already been recorded. The check and the write must be atomic.
	MarkProcessed(ctx context.Context, eventID string) (seen bool, err error)
}
