package stripekit

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v83"
)

const endpointSubscriptions = "/subscriptions"

// SubscriptionParams describes a subscription to create.
type SubscriptionParams struct {
	CustomerID string
	PriceID    string
	// TrialPeriodDays starts the subscription with a trial when positive.
	TrialPeriodDays int64
	Metadata        map[string]string
}

// SubscriptionListOptions filters a subscription listing.
type SubscriptionListOptions struct {
	// CustomerID restricts the listing to one customer when set.
	CustomerID string
	Limit      int64
}

// CreateSubscription subscribes a customer to a price.
func (m *Manager) CreateSubscription(ctx context.Context, params SubscriptionParams) (Subscription, error) {
	start := time.Now()
	createParams := &stripe.SubscriptionCreateParams{
		Customer: stripe.String(params.CustomerID),
		Items: []*stripe.SubscriptionCreateItemParams{
			{Price: stripe.String(params.PriceID)},
		},
		Metadata: params.Metadata,
	}
	if params.TrialPeriodDays > 0 {
		createParams.TrialPeriodDays = stripe.Int64(params.TrialPeriodDays)
	}

	s, err := m.client.V1Subscriptions.Create(ctx, createParams)
	m.metrics.RecordAPICallDuration(endpointSubscriptions, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointSubscriptions, "error")
		return Subscription{}, apiError("create subscription", err)
	}
	m.metrics.RecordAPICall(endpointSubscriptions, "success")
	m.log.Info("created subscription", Field{"subscription_id", s.ID})
	return newSubscription(s), nil
}

// GetSubscription retrieves a subscription by ID.
func (m *Manager) GetSubscription(ctx context.Context, subscriptionID string) (Subscription, error) {
	start := time.Now()
	s, err := m.client.V1Subscriptions.Retrieve(ctx, subscriptionID, nil)
	m.metrics.RecordAPICallDuration(endpointSubscriptions, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointSubscriptions, "error")
		return Subscription{}, apiError("retrieve subscription", err)
	}
	m.metrics.RecordAPICall(endpointSubscriptions, "success")
	return newSubscription(s), nil
}

// CancelSubscription cancels a subscription immediately.
func (m *Manager) CancelSubscription(ctx context.Context, subscriptionID string) (Subscription, error) {
	start := time.Now()
	s, err := m.client.V1Subscriptions.Cancel(ctx, subscriptionID, nil)
	m.metrics.RecordAPICallDuration(endpointSubscriptions, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointSubscriptions, "error")
		return Subscription{}, apiError("cancel subscription", err)
	}
	m.metrics.RecordAPICall(endpointSubscriptions, "success")
	m.log.Info("canceled subscription", Field{"subscription_id", s.ID})
	return newSubscription(s), nil
}

// ListSubscriptions lists subscriptions, optionally for one customer.
func (m *Manager) ListSubscriptions(ctx context.Context, opts SubscriptionListOptions) ([]Subscription, error) {
	start := time.Now()
	params := &stripe.SubscriptionListParams{
		Customer: optString(opts.CustomerID),
	}
	params.Limit = listLimit(opts.Limit)

	var out []Subscription
	for s, err := range m.client.V1Subscriptions.List(ctx, params) {
		if err != nil {
			m.metrics.RecordAPICall(endpointSubscriptions, "error")
			return nil, apiError("list subscriptions", err)
		}
		out = append(out, newSubscription(s))
	}
	m.metrics.RecordAPICall(endpointSubscriptions, "success")
	m.metrics.RecordAPICallDuration(endpointSubscriptions, time.Since(start))
	return out, nil
}
