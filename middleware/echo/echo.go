// Package echo provides an Echo handler for Stripe webhook endpoints.
package echo

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eldercrank/stripekit/pkg/stripekit"
)

// Config holds webhook endpoint configuration.
type Config struct {
	// Dispatcher verifies and dispatches deliveries (required).
	Dispatcher *stripekit.Dispatcher

	// MaxBodyBytes caps the request body. Defaults to 256 KiB.
	MaxBodyBytes int64

	// OnEvent is called after a delivery is dispatched, before the 200
	// response. Optional.
	OnEvent func(c echo.Context, event *stripekit.Event)

	// OnError replaces the default error responses. Optional.
	OnError func(c echo.Context, err error) error
}

// WebhookHandler returns an Echo handler that feeds deliveries to the
// dispatcher. Mount it on a POST route.
func WebhookHandler(cfg Config) echo.HandlerFunc {
	if cfg.Dispatcher == nil {
		panic("echo webhook handler: Dispatcher is required")
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 256 * 1024
	}

	return func(c echo.Context) error {
		r := c.Request()
		r.Body = http.MaxBytesReader(c.Response(), r.Body, maxBody)
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
		}

		event, err := cfg.Dispatcher.ProcessWebhook(
			r.Context(), payload, r.Header.Get(stripekit.SignatureHeader))
		if err != nil {
			if cfg.OnError != nil {
				return cfg.OnError(c, err)
			}
			switch {
			case errors.Is(err, stripekit.ErrSignatureMismatch):
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
			case errors.Is(err, stripekit.ErrMalformedPayload):
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			case errors.Is(err, stripekit.ErrNotConfigured):
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "webhook not configured"})
			default:
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process webhook"})
			}
		}

		if cfg.OnEvent != nil {
			cfg.OnEvent(c, event)
		}
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	}
}
