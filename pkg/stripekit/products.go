package stripekit

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v83"
)

const endpointProducts = "/products"

// ProductParams describes a product to create.
type ProductParams struct {
	Name        string
	Description string
	// Active defaults to true when nil.
	Active   *bool
	Metadata map[string]string
}

// ProductUpdate carries the fields to change on a product.
// Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Active      *bool
	Metadata    map[string]string
}

// ProductListOptions filters a product listing.
type ProductListOptions struct {
	// Active filters by active state when non-nil.
	Active *bool
	// Limit caps the page size; defaults to 10.
	Limit int64
}

// CreateProduct creates a new product.
func (m *Manager) CreateProduct(ctx context.Context, params ProductParams) (Product, error) {
	start := time.Now()
	active := true
	if params.Active != nil {
		active = *params.Active
	}
	p, err := m.client.V1Products.Create(ctx, &stripe.ProductCreateParams{
		Name:        stripe.String(params.Name),
		Description: optString(params.Description),
		Active:      stripe.Bool(active),
		Metadata:    params.Metadata,
	})
	m.metrics.RecordAPICallDuration(endpointProducts, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointProducts, "error")
		return Product{}, apiError("create product", err)
	}
	m.metrics.RecordAPICall(endpointProducts, "success")
	m.log.Info("created product", Field{"product_id", p.ID})
	return newProduct(p), nil
}

// GetProduct retrieves a product by ID.
func (m *Manager) GetProduct(ctx context.Context, productID string) (Product, error) {
	start := time.Now()
	p, err := m.client.V1Products.Retrieve(ctx, productID, nil)
	m.metrics.RecordAPICallDuration(endpointProducts, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointProducts, "error")
		return Product{}, apiError("retrieve product", err)
	}
	m.metrics.RecordAPICall(endpointProducts, "success")
	return newProduct(p), nil
}

// UpdateProduct applies the non-nil fields of update to a product.
func (m *Manager) UpdateProduct(ctx context.Context, productID string, update ProductUpdate) (Product, error) {
	start := time.Now()
	p, err := m.client.V1Products.Update(ctx, productID, &stripe.ProductUpdateParams{
		Name:        update.Name,
		Description: update.Description,
		Active:      update.Active,
		Metadata:    update.Metadata,
	})
	m.metrics.RecordAPICallDuration(endpointProducts, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointProducts, "error")
		return Product{}, apiError("update product", err)
	}
	m.metrics.RecordAPICall(endpointProducts, "success")
	m.log.Info("updated product", Field{"product_id", p.ID})
	return newProduct(p), nil
}

// DeactivateProduct sets a product inactive so it cannot be attached to new
// subscriptions. Stripe products are deactivated rather than deleted once
// they have been used.
func (m *Manager) DeactivateProduct(ctx context.Context, productID string) (Product, error) {
	start := time.Now()
	p, err := m.client.V1Products.Update(ctx, productID, &stripe.ProductUpdateParams{
		Active: stripe.Bool(false),
	})
	m.metrics.RecordAPICallDuration(endpointProducts, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointProducts, "error")
		return Product{}, apiError("deactivate product", err)
	}
	m.metrics.RecordAPICall(endpointProducts, "success")
	m.log.Info("deactivated product", Field{"product_id", p.ID})
	return newProduct(p), nil
}

// ListProducts lists products, optionally filtered by active state.
func (m *Manager) ListProducts(ctx context.Context, opts ProductListOptions) ([]Product, error) {
	start := time.Now()
	params := &stripe.ProductListParams{Active: opts.Active}
	params.Limit = listLimit(opts.Limit)

	var out []Product
	for p, err := range m.client.V1Products.List(ctx, params) {
		if err != nil {
			m.metrics.RecordAPICall(endpointProducts, "error")
			return nil, apiError("list products", err)
		}
		out = append(out, newProduct(p))
	}
	m.metrics.RecordAPICall(endpointProducts, "success")
	m.metrics.RecordAPICallDuration(endpointProducts, time.Since(start))
	return out, nil
}

// optString converts "" to nil so empty optionals are omitted from the
// request instead of clearing the remote field.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return stripe.String(s)
}
