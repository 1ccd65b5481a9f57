package stripekit

import (
	"github.com/stripe/stripe-go/v83"
)

// The records below mirror remote Stripe resource shapes. Stripe is the
// system of record; these are point-in-time snapshots with no lifecycle of
// their own.

// Product is a snapshot of a Stripe product.
type Product struct {
	ID          string
	Name        string
	Description string
	Active      bool
	Created     int64

	// Prices is populated only by Handler.ListActiveProducts.
	Prices []Price
}

// Price is a snapshot of a Stripe price.
type Price struct {
	ID         string
	ProductID  string
	UnitAmount int64
	Currency   string
	Interval   string // empty for one-time prices
	Nickname   string
	Active     bool
	Created    int64
}

// Address is a customer postal address.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Customer is a snapshot of a Stripe customer.
type Customer struct {
	ID          string
	Name        string
	Email       string
	Description string
	Phone       string
	Address     *Address
	Created     int64
	Deleted     bool
}

// Subscription is a snapshot of a Stripe subscription.
type Subscription struct {
	ID         string
	CustomerID string
	Status     string
	Created    int64
	CanceledAt int64 // zero unless canceled
}

// CheckoutSession is a snapshot of a Stripe Checkout session.
type CheckoutSession struct {
	ID         string
	URL        string
	CustomerID string
	Mode       string
	Status     string
	ExpiresAt  int64
	Created    int64
}

// PortalSession is a snapshot of a Stripe billing-portal session.
type PortalSession struct {
	ID         string
	URL        string
	CustomerID string
	ReturnURL  string
	Created    int64
}

func newProduct(p *stripe.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
		Created:     p.Created,
	}
}

func newPrice(p *stripe.Price) Price {
	out := Price{
		ID:         p.ID,
		UnitAmount: p.UnitAmount,
		Currency:   string(p.Currency),
		Nickname:   p.Nickname,
		Active:     p.Active,
		Created:    p.Created,
	}
	if p.Product != nil {
		out.ProductID = p.Product.ID
	}
	if p.Recurring != nil {
		out.Interval = string(p.Recurring.Interval)
	}
	return out
}

func newCustomer(c *stripe.Customer) Customer {
	out := Customer{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Description: c.Description,
		Phone:       c.Phone,
		Created:     c.Created,
		Deleted:     c.Deleted,
	}
	if c.Address != nil {
		out.Address = &Address{
			Line1:      c.Address.Line1,
			Line2:      c.Address.Line2,
			City:       c.Address.City,
			State:      c.Address.State,
			PostalCode: c.Address.PostalCode,
			Country:    c.Address.Country,
		}
	}
	return out
}

func newSubscription(s *stripe.Subscription) Subscription {
	out := Subscription{
		ID:         s.ID,
		Status:     string(s.Status),
		Created:    s.Created,
		CanceledAt: s.CanceledAt,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out
}

func newCheckoutSession(s *stripe.CheckoutSession) CheckoutSession {
	out := CheckoutSession{
		ID:        s.ID,
		URL:       s.URL,
		Mode:      string(s.Mode),
		Status:    string(s.Status),
		ExpiresAt: s.ExpiresAt,
		Created:   s.Created,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out
}

func newPortalSession(s *stripe.BillingPortalSession) PortalSession {
	return PortalSession{
		ID:         s.ID,
		URL:        s.URL,
		CustomerID: s.Customer,
		ReturnURL:  s.ReturnURL,
		Created:    s.Created,
	}
}
