package stripekit

import (
	"context"
)

// Handler is a single interface to the Stripe API: the full Manager façade
// plus a few composite conveniences for the common subscription-product
// flow. Most applications want exactly one of these.
type Handler struct {
	*Manager
}

// NewHandler creates a Handler.
func NewHandler(config Config) (*Handler, error) {
	manager, err := NewManager(config)
	if err != nil {
		return nil, err
	}
	return &Handler{Manager: manager}, nil
}

// SubscriptionProduct pairs the IDs produced by CreateSubscriptionProduct.
type SubscriptionProduct struct {
	ProductID string
	PriceID   string
}

// CreateSubscriptionProduct creates a product and a recurring price in one
// go. Amount is in the currency's smallest unit; currency defaults to "usd"
// and interval to "month".
func (h *Handler) CreateSubscriptionProduct(ctx context.Context, name string, amount int64, currency, interval string) (SubscriptionProduct, error) {
	if interval == "" {
		interval = "month"
	}

	product, err := h.CreateProduct(ctx, ProductParams{Name: name})
	if err != nil {
		return SubscriptionProduct{}, err
	}

	price, err := h.CreatePrice(ctx, PriceParams{
		ProductID:  product.ID,
		UnitAmount: amount,
		Currency:   currency,
		Interval:   interval,
	})
	if err != nil {
		return SubscriptionProduct{}, err
	}

	return SubscriptionProduct{ProductID: product.ID, PriceID: price.ID}, nil
}

// ListActiveProducts retrieves active products with their active prices
// attached. One extra list call per product; keep limit modest.
func (h *Handler) ListActiveProducts(ctx context.Context, limit int64) ([]Product, error) {
	active := true
	products, err := h.ListProducts(ctx, ProductListOptions{Active: &active, Limit: limit})
	if err != nil {
		return nil, err
	}

	for i := range products {
		prices, err := h.ListPrices(ctx, PriceListOptions{
			Active:    &active,
			ProductID: products[i].ID,
		})
		if err != nil {
			return nil, err
		}
		products[i].Prices = prices
	}
	return products, nil
}
