package stripekit

import "time"

// Metrics defines the interface for tracking webhook and API operations.
// All methods are optional - a nil Config.Metrics falls back to NoopMetrics.
type Metrics interface {
	// RecordWebhookEvent records a processed webhook delivery.
	// status: "success", "duplicate" or "error"
	RecordWebhookEvent(eventType, status string)

	// RecordWebhookProcessingDuration records how long one delivery took.
	RecordWebhookProcessingDuration(eventType string, duration time.Duration)

	// RecordWebhookError records a webhook processing error.
	// errorType: "signature_mismatch", "malformed_payload", "handler_failure",
	// "payload_too_large", "not_configured"
	RecordWebhookError(errorType string)

	// RecordAPICall records a passthrough call to the Stripe API.
	// endpoint: the resource path (e.g. "/products"); status: "success" or "error"
	RecordAPICall(endpoint, status string)

	// RecordAPICallDuration records how long an API call took.
	RecordAPICallDuration(endpoint string, duration time.Duration)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordWebhookEvent(_, _ string)                            {}
func (n *NoopMetrics) RecordWebhookProcessingDuration(_ string, _ time.Duration) {}
func (n *NoopMetrics) RecordWebhookError(_ string)                               {}
func (n *NoopMetrics) RecordAPICall(_, _ string)                                 {}
func (n *NoopMetrics) RecordAPICallDuration(_ string, _ time.Duration)           {}
