// Package gin provides a Gin handler for Stripe webhook endpoints.
package gin

import (
	"errors"
	"io"
	"net/http"

	gongin "github.com/gin-gonic/gin"

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
	OnEvent func(c *gongin.Context, event *stripekit.Event)

	// OnError replaces the default error responses. Optional.
	OnError func(c *gongin.Context, err error)
}

// WebhookHandler returns a Gin handler that feeds deliveries to the
// dispatcher. Mount it on a POST route.
func WebhookHandler(cfg Config) gongin.HandlerFunc {
	if cfg.Dispatcher == nil {
		panic("gin webhook handler: Dispatcher is required")
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 256 * 1024
	}

	return func(c *gongin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gongin.H{"error": "payload too large"})
			return
		}

		event, err := cfg.Dispatcher.ProcessWebhook(
			c.Request.Context(), payload, c.GetHeader(stripekit.SignatureHeader))
		if err != nil {
			if cfg.OnError != nil {
				cfg.OnError(c, err)
				return
			}
			switch {
			case errors.Is(err, stripekit.ErrSignatureMismatch):
				c.JSON(http.StatusUnauthorized, gongin.H{"error": "invalid signature"})
			case errors.Is(err, stripekit.ErrMalformedPayload):
				c.JSON(http.StatusBadRequest, gongin.H{"error": "invalid payload"})
			case errors.Is(err, stripekit.ErrNotConfigured):
				c.JSON(http.StatusServiceUnavailable, gongin.H{"error": "webhook not configured"})
			default:
				c.JSON(http.StatusInternalServerError, gongin.H{"error": "failed to process webhook"})
			}
			return
		}

		if cfg.OnEvent != nil {
			cfg.OnEvent(c, event)
		}
		c.JSON(http.StatusOK, gongin.H{"received": true})
	}
}
