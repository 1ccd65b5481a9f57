package stripekit

import (
	"encoding/json"
	"fmt"
)

// WildcardEvent is the sentinel event type matching every delivery.
// A handler registered under it runs after the exact-type handler (if any).
const WildcardEvent = "*"

// Event is an immutable snapshot of one verified webhook delivery.
type Event struct {
	// ID is the Stripe event identifier (e.g. "evt_1NG...").
	ID string `json:"id"`

	// Type is the dot-delimited event name (e.g. "payment_intent.succeeded").
	Type string `json:"type"`

	// Data is the event payload. It contains at least the "object" key with
	// the affected resource, and may carry "previous_attributes" on updates.
	Data map[string]any `json:"data"`

	// APIVersion is the Stripe API version the event was rendered with.
	// Optional; empty when the payload omits it.
	APIVersion string `json:"api_version,omitempty"`
}

// Object returns Data["object"], the affected resource's fields.
// Returns an empty map when the key is absent or not an object.
func (e *Event) Object() map[string]any {
	if obj, ok := e.Data["object"].(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

// parseEvent decodes a verified payload into an Event. The id, type and data
// fields are mandatory; their absence is a malformed payload, not a default.
func parseEvent(payload []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	switch {
	case evt.ID == "":
		return nil, fmt.Errorf("%w: missing event id", ErrMalformedPayload)
	case evt.Type == "":
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	case evt.Data == nil:
		return nil, fmt.Errorf("%w: missing event data", ErrMalformedPayload)
	}
	return &evt, nil
}
