package stripekit

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v83"
)

const endpointPrices = "/prices"

// PriceParams describes a price to create.
type PriceParams struct {
	ProductID  string
	UnitAmount int64  // amount in the currency's smallest unit (cents)
	Currency   string // defaults to "usd"
	// Interval makes the price recurring ("day", "week", "month", "year").
	// Empty means a one-time price.
	Interval string
	Nickname string
	// Active defaults to true when nil.
	Active *bool
}

// PriceUpdate carries the fields to change on a price.
// Nil fields are left untouched.
type PriceUpdate struct {
	Active   *bool
	Nickname *string
}

// PriceListOptions filters a price listing.
type PriceListOptions struct {
	Active    *bool
	ProductID string
	Limit     int64
}

// CreatePrice creates a new price for a product.
func (m *Manager) CreatePrice(ctx context.Context, params PriceParams) (Price, error) {
	start := time.Now()
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	active := true
	if params.Active != nil {
		active = *params.Active
	}
	createParams := &stripe.PriceCreateParams{
		Product:    stripe.String(params.ProductID),
		UnitAmount: stripe.Int64(params.UnitAmount),
		Currency:   stripe.String(currency),
		Nickname:   optString(params.Nickname),
		Active:     stripe.Bool(active),
	}
	if params.Interval != "" {
		createParams.Recurring = &stripe.PriceCreateRecurringParams{
			Interval: stripe.String(params.Interval),
		}
	}

	p, err := m.client.V1Prices.Create(ctx, createParams)
	m.metrics.RecordAPICallDuration(endpointPrices, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointPrices, "error")
		return Price{}, apiError("create price", err)
	}
	m.metrics.RecordAPICall(endpointPrices, "success")
	m.log.Info("created price", Field{"price_id", p.ID})
	return newPrice(p), nil
}

// GetPrice retrieves a price by ID.
func (m *Manager) GetPrice(ctx context.Context, priceID string) (Price, error) {
	start := time.Now()
	p, err := m.client.V1Prices.Retrieve(ctx, priceID, nil)
	m.metrics.RecordAPICallDuration(endpointPrices, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointPrices, "error")
		return Price{}, apiError("retrieve price", err)
	}
	m.metrics.RecordAPICall(endpointPrices, "success")
	return newPrice(p), nil
}

// UpdatePrice applies the non-nil fields of update to a price.
func (m *Manager) UpdatePrice(ctx context.Context, priceID string, update PriceUpdate) (Price, error) {
	start := time.Now()
	p, err := m.client.V1Prices.Update(ctx, priceID, &stripe.PriceUpdateParams{
		Active:   update.Active,
		Nickname: update.Nickname,
	})
	m.metrics.RecordAPICallDuration(endpointPrices, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointPrices, "error")
		return Price{}, apiError("update price", err)
	}
	m.metrics.RecordAPICall(endpointPrices, "success")
	m.log.Info("updated price", Field{"price_id", p.ID})
	return newPrice(p), nil
}

// DeactivatePrice sets a price inactive. Stripe prices cannot be deleted
// once used; deactivation removes them from new purchases.
func (m *Manager) DeactivatePrice(ctx context.Context, priceID string) (Price, error) {
	start := time.Now()
	p, err := m.client.V1Prices.Update(ctx, priceID, &stripe.PriceUpdateParams{
		Active: stripe.Bool(false),
	})
	m.metrics.RecordAPICallDuration(endpointPrices, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointPrices, "error")
		return Price{}, apiError("deactivate price", err)
	}
	m.metrics.RecordAPICall(endpointPrices, "success")
	m.log.Info("deactivated price", Field{"price_id", p.ID})
	return newPrice(p), nil
}

// ListPrices lists prices, optionally filtered by product and active state.
func (m *Manager) ListPrices(ctx context.Context, opts PriceListOptions) ([]Price, error) {
	start := time.Now()
	params := &stripe.PriceListParams{
		Active:  opts.Active,
		Product: optString(opts.ProductID),
	}
	params.Limit = listLimit(opts.Limit)

	var out []Price
	for p, err := range m.client.V1Prices.List(ctx, params) {
		if err != nil {
			m.metrics.RecordAPICall(endpointPrices, "error")
			return nil, apiError("list prices", err)
		}
		out = append(out, newPrice(p))
	}
	m.metrics.RecordAPICall(endpointPrices, "success")
	m.metrics.RecordAPICallDuration(endpointPrices, time.Since(start))
	return out, nil
}
