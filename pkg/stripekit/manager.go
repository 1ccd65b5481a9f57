package stripekit

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v83"
)

// Manager is a façade over the Stripe data API: products, prices, customers,
// subscriptions, checkout and billing-portal sessions. Every method is a
// direct passthrough; Stripe stays authoritative and failures surface as
// APIError values, never retried here.
//
// Manager embeds a Dispatcher, so it also registers handlers and processes
// webhook deliveries when a WebhookSecret is configured.
type Manager struct {
	*Dispatcher

	client  *stripe.Client
	log     Logger
	metrics Metrics
}

// NewManager creates a Manager. The API key is required; the webhook secret
// is only needed if ProcessWebhook will be used.
func NewManager(config Config) (*Manager, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key missing", ErrNotConfigured)
	}

	return &Manager{
		Dispatcher: NewDispatcher(config),
		client:     stripe.NewClient(apiKey),
		log:        config.logger(),
		metrics:    config.metrics(),
	}, nil
}

// defaultListLimit bounds list calls when the caller passes no limit.
const defaultListLimit = 10

func listLimit(limit int64) *int64 {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return stripe.Int64(limit)
}
