package stripekit

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v83"
)

var (
	// ErrSignatureMismatch is returned when a webhook payload does not
	// validate against the Stripe-Signature header under the shared secret.
	// The payload may have been forged or altered in transit.
	ErrSignatureMismatch = errors.New("webhook signature mismatch")

	// ErrMalformedPayload is returned when a webhook payload cannot be
	// decoded, or decodes without the mandatory id/type/data fields.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrNotConfigured is returned when an operation needs a credential
	// (API key or webhook secret) that was not provided in the Config.
	ErrNotConfigured = errors.New("stripekit not configured")
)

// Remote API failure kinds. Façade methods never swallow or retry these;
// callers match with errors.Is and apply their own retry policy.
var (
	ErrAPIConnection  = errors.New("stripe api connection error")
	ErrAuthentication = errors.New("stripe authentication error")
	ErrRateLimit      = errors.New("stripe rate limit exceeded")
	ErrInvalidRequest = errors.New("stripe invalid request")
	ErrPermission     = errors.New("stripe permission denied")
	ErrIdempotency    = errors.New("stripe idempotency error")
	ErrAPI            = errors.New("stripe api error")
)

// APIError wraps a failure from the remote Stripe API with the operation
// that produced it and a kind sentinel. errors.Is matches both the kind
// sentinel and the underlying *stripe.Error.
type APIError struct {
	Op   string // e.g. "create product"
	Kind error  // one of the Err* sentinels above
	Err  error  // the SDK error, unchanged
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *APIError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// apiError classifies an SDK error into the APIError family.
func apiError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Op: op, Kind: classifyAPIError(err), Err: err}
}

func classifyAPIError(err error) error {
	var sErr *stripe.Error
	if !errors.As(err, &sErr) {
		// No structured Stripe error means the request never got a
		// response: DNS, TLS, timeouts and friends.
		return ErrAPIConnection
	}
	switch {
	case sErr.HTTPStatusCode == http.StatusUnauthorized:
		return ErrAuthentication
	case sErr.HTTPStatusCode == http.StatusForbidden:
		return ErrPermission
	case sErr.HTTPStatusCode == http.StatusTooManyRequests:
		return ErrRateLimit
	case sErr.Type == stripe.ErrorTypeIdempotency:
		return ErrIdempotency
	case sErr.Type == stripe.ErrorTypeInvalidRequest:
		return ErrInvalidRequest
	default:
		return ErrAPI
	}
}
