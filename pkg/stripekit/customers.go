package stripekit

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v83"
)

const endpointCustomers = "/customers"

// CustomerParams describes a customer to create. All fields are optional;
// Stripe accepts an entirely empty customer.
type CustomerParams struct {
	Name        string
	Email       string
	Description string
	Phone       string
	Address     *Address
	Metadata    map[string]string
}

// CustomerUpdate carries the fields to change on a customer.
// Nil fields are left untouched.
type CustomerUpdate struct {
	Name        *string
	Email       *string
	Description *string
	Phone       *string
	Address     *Address
	Metadata    map[string]string
}

func addressParams(a *Address) *stripe.AddressParams {
	if a == nil {
		return nil
	}
	return &stripe.AddressParams{
		Line1:      optString(a.Line1),
		Line2:      optString(a.Line2),
		City:       optString(a.City),
		State:      optString(a.State),
		PostalCode: optString(a.PostalCode),
		Country:    optString(a.Country),
	}
}

// CreateCustomer creates a new customer.
func (m *Manager) CreateCustomer(ctx context.Context, params CustomerParams) (Customer, error) {
	start := time.Now()
	c, err := m.client.V1Customers.Create(ctx, &stripe.CustomerCreateParams{
		Name:        optString(params.Name),
		Email:       optString(params.Email),
		Description: optString(params.Description),
		Phone:       optString(params.Phone),
		Address:     addressParams(params.Address),
		Metadata:    params.Metadata,
	})
	m.metrics.RecordAPICallDuration(endpointCustomers, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointCustomers, "error")
		return Customer{}, apiError("create customer", err)
	}
	m.metrics.RecordAPICall(endpointCustomers, "success")
	m.log.Info("created customer", Field{"customer_id", c.ID})
	return newCustomer(c), nil
}

// GetCustomer retrieves a customer by ID.
func (m *Manager) GetCustomer(ctx context.Context, customerID string) (Customer, error) {
	start := time.Now()
	c, err := m.client.V1Customers.Retrieve(ctx, customerID, nil)
	m.metrics.RecordAPICallDuration(endpointCustomers, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointCustomers, "error")
		return Customer{}, apiError("retrieve customer", err)
	}
	m.metrics.RecordAPICall(endpointCustomers, "success")
	return newCustomer(c), nil
}

// UpdateCustomer applies the non-nil fields of update to a customer.
func (m *Manager) UpdateCustomer(ctx context.Context, customerID string, update CustomerUpdate) (Customer, error) {
	start := time.Now()
	c, err := m.client.V1Customers.Update(ctx, customerID, &stripe.CustomerUpdateParams{
		Name:        update.Name,
		Email:       update.Email,
		Description: update.Description,
		Phone:       update.Phone,
		Address:     addressParams(update.Address),
		Metadata:    update.Metadata,
	})
	m.metrics.RecordAPICallDuration(endpointCustomers, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointCustomers, "error")
		return Customer{}, apiError("update customer", err)
	}
	m.metrics.RecordAPICall(endpointCustomers, "success")
	m.log.Info("updated customer", Field{"customer_id", c.ID})
	return newCustomer(c), nil
}

// DeleteCustomer permanently deletes a customer. Unlike products and
// prices, Stripe supports real customer deletion.
func (m *Manager) DeleteCustomer(ctx context.Context, customerID string) (Customer, error) {
	start := time.Now()
	c, err := m.client.V1Customers.Delete(ctx, customerID, nil)
	m.metrics.RecordAPICallDuration(endpointCustomers, time.Since(start))
	if err != nil {
		m.metrics.RecordAPICall(endpointCustomers, "error")
		return Customer{}, apiError("delete customer", err)
	}
	m.metrics.RecordAPICall(endpointCustomers, "success")
	m.log.Info("deleted customer", Field{"customer_id", c.ID})
	return newCustomer(c), nil
}

// ListCustomers lists customers.
func (m *Manager) ListCustomers(ctx context.Context, limit int64) ([]Customer, error) {
	start := time.Now()
	params := &stripe.CustomerListParams{}
	params.Limit = listLimit(limit)

	var out []Customer
	for c, err := range m.client.V1Customers.List(ctx, params) {
		if err != nil {
			m.metrics.RecordAPICall(endpointCustomers, "error")
			return nil, apiError("list customers", err)
		}
		out = append(out, newCustomer(c))
	}
	m.metrics.RecordAPICall(endpointCustomers, "success")
	m.metrics.RecordAPICallDuration(endpointCustomers, time.Since(start))
	return out, nil
}
