// Package fiber provides a Fiber handler for Stripe webhook endpoints.
package fiber

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/eldercrank/stripekit/pkg/stripekit"
)

// Config holds webhook endpoint configuration.
type Config struct {
	// Dispatcher verifies and dispatches deliveries (required).
	Dispatcher *stripekit.Dispatcher

	// MaxBodyBytes caps the request body. Defaults to 256 KiB. Fiber also
	// enforces its own app-level BodyLimit; set both when raising it.
	MaxBodyBytes int64

	// OnEvent is called after a delivery is dispatched, before the 200
	// response. Optional.
	OnEvent func(c *fiber.Ctx, event *stripekit.Event)

	// OnError replaces the default error responses. Optional.
	OnError func(c *fiber.Ctx, err error) error
}

// WebhookHandler returns a Fiber handler that feeds deliveries to the
// dispatcher. Mount it on a POST route.
func WebhookHandler(cfg Config) fiber.Handler {
	if cfg.Dispatcher == nil {
		panic("fiber webhook handler: Dispatcher is required")
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 256 * 1024
	}

	return func(c *fiber.Ctx) error {
		payload := c.Body()
		if int64(len(payload)) > maxBody {
			return c.Status(fiber.StatusRequestEntityTooLarge).
				JSON(fiber.Map{"error": "payload too large"})
		}

		event, err := cfg.Dispatcher.ProcessWebhook(
			c.UserContext(), payload, c.Get(stripekit.SignatureHeader))
		if err != nil {
			if cfg.OnError != nil {
				return cfg.OnError(c, err)
			}
			switch {
			case errors.Is(err, stripekit.ErrSignatureMismatch):
				return c.Status(fiber.StatusUnauthorized).
					JSON(fiber.Map{"error": "invalid signature"})
			case errors.Is(err, stripekit.ErrMalformedPayload):
				return c.Status(fiber.StatusBadRequest).
					JSON(fiber.Map{"error": "invalid payload"})
			case errors.Is(err, stripekit.ErrNotConfigured):
				return c.Status(fiber.StatusServiceUnavailable).
					JSON(fiber.Map{"error": "webhook not configured"})
			default:
				return c.Status(fiber.StatusInternalServerError).
					JSON(fiber.Map{"error": "failed to process webhook"})
			}
		}

		if cfg.OnEvent != nil {
			cfg.OnEvent(c, event)
		}
		return c.JSON(fiber.Map{"received": true})
	}
}
