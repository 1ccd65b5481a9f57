package stripekit

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v83"
)

const (
	endpointCheckoutSessions = "/checkout/sessions"
	endpointPortalSessions   = "/billing_portal/sessions"
)

// LineItem is one priced item on a checkout session.
type LineItem struct {
	PriceID  string
	Quantity int64 // defaults to 1 when zero
}

// CheckoutSessionParams describes a Checkout session to create.
type CheckoutSessionParams struct {
	CustomerID string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	// Mode is "subscription", "payment" or "setup"; defaults to "subscription".
	Mode     string
	Metadata map[string]string
	// BillingAddressCollection is "auto" or "required" when set.
	BillingAddressCollection string
	PaymentMethodTypes       []string
	AllowPromotionCodes      bool
	// ExpiresAt is a Unix timestamp; zero keeps Stripe's default expiry.
	ExpiresAt int64
}

// PortalSessionParams describes a billing-portal session to create.
type PortalSessionParams struct {
	CustomerID string
	ReturnURL  string
}

// CreateCheckoutSession creates a Stripe Checkout session and returns its
// snapshot, including the hosted payment page URL.
func (m *Manager) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (CheckoutSession, error) {
	start := time.Now()
	mode := params.Mode
	if mode == "" {
		mode = string(stripe.CheckoutSessionModeSubscription)
	}

	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(quantity),
		})
	}

	createParams := &stripe.CheckoutSessionCreateParams{
		Customer:                 optString(params.CustomerID),
		Mode:                     stripe.String(mode),
		LineItems:                lineItems,
		SuccessURL:               stripe.String(params.SuccessURL),
		CancelURL:                stripe.String(params.CancelURL),
		Metadata:                 params.Metadata,
		BillingAddressCollection: optString(params.BillingAddressCollection),
		AllowPromotionCodes:      stripe.Bool(params.AllowPromotionCodes),
	}
	if len(params.PaymentMethodTypes) > 0 {
		createParams.PaymentMethodTypes = stripe.StringSlice(params.PaymentMethodTypes)
	}
	if params.ExpiresAt > 0 {
		createParams.ExpiresAt = stripe.Int64(params.ExpiresAt)
	}

	s, err := m.client.V1CheckoutSessions.Create(ctx, createParams)
	m.metrics.RecordAPICallDuration(endpointCheckoutSessions, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointCheckoutSessions, "error")
		return CheckoutSession{}, apiError("create checkout session", err)
	}
	m.metrics.RecordAPICall(endpointCheckoutSessions, "success")
	m.log.Info("created checkout session", Field{"session_id", s.ID})
	return newCheckoutSession(s), nil
}

// GetCheckoutSession retrieves a Checkout session by ID.
func (m *Manager) GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error) {
	start := time.Now()
	s, err := m.client.V1CheckoutSessions.Retrieve(ctx, sessionID, nil)
	m.metrics.RecordAPICallDuration(endpointCheckoutSessions, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointCheckoutSessions, "error")
		return CheckoutSession{}, apiError("retrieve checkout session", err)
	}
	m.metrics.RecordAPICall(endpointCheckoutSessions, "success")
	return newCheckoutSession(s), nil
}

// CreatePortalSession creates a billing-portal session where the customer
// can manage subscriptions and payment methods.
func (m *Manager) CreatePortalSession(ctx context.Context, params PortalSessionParams) (PortalSession, error) {
	start := time.Now()
	s, err := m.client.V1BillingPortalSessions.Create(ctx, &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(params.CustomerID),
		ReturnURL: optString(params.ReturnURL),
	})
	m.metrics.RecordAPICallDuration(endpointPortalSessions, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointPortalSessions, "error")
		return PortalSession{}, apiError("create portal session", err)
	}
	m.metrics.RecordAPICall(endpointPortalSessions, "success")
	m.log.Info("created billing portal session", Field{"session_id", s.ID})
	return newPortalSession(s), nil
}
