package stripekit

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SignatureHeader is the header Stripe signs webhook deliveries with.
const SignatureHeader = "Stripe-Signature"

var errPayloadTooLarge = errors.New("payload too large")

// WebhookHandler returns an http.Handler that mounts ProcessWebhook on a
// POST endpoint. It enforces the body-size cap, per-IP rate limiting, and
// maps error kinds to status codes: 401 on signature mismatch, 400 on
// malformed payload, 503 when the secret is not configured.
//
// For Gin, Echo and Fiber endpoints see the middleware/ packages.
func (d *Dispatcher) WebhookHandler() http.Handler {
	return d.rateLimiter.middleware(http.HandlerFunc(d.handleWebhook))
}

func (d *Dispatcher) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if d.secret == "" {
		http.Error(w, "webhook not configured", http.StatusServiceUnavailable)
		return
	}

	payload, err := readBody(w, r, d.maxBodyBytes)
	if err != nil {
		if errors.Is(err, errPayloadTooLarge) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			d.metrics.RecordWebhookError("payload_too_large")
		} else {
			http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
			d.metrics.RecordWebhookError("malformed_payload")
		}
		return
	}

	_, err = d.ProcessWebhook(r.Context(), payload, r.Header.Get(SignatureHeader))
	switch {
	case errors.Is(err, ErrSignatureMismatch):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	case errors.Is(err, ErrMalformedPayload):
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	case errors.Is(err, ErrNotConfigured):
		http.Error(w, "webhook not configured", http.StatusServiceUnavailable)
		return
	case err != nil:
		http.Error(w, "failed to process webhook", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))

	d.log.Debug("webhook request served",
		Field{"duration_ms", time.Since(start).Milliseconds()})
}

// readBody reads the request body under a hard size limit and rejects
// empty bodies.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w (max %d bytes)", errPayloadTooLarge, limit)
		}
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}
	return body, nil
}
