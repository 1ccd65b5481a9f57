package gin

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gongin "github.com/gin-gonic/gin"

	"github.com/eldercrank/stripekit/pkg/stripekit"
)

const testSecret = "whsec_test_secret"

func signPayload(secret string, payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func setupRouter(t *testing.T, cfg Config) *gongin.Engine {
	t.Helper()
	gongin.SetMode(gongin.TestMode)
	r := gongin.New()
	r.POST("/webhooks/stripe", WebhookHandler(cfg))
	return r
}

func postWebhook(r http.Handler, payload []byte, sigHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set(stripekit.SignatureHeader, sigHeader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHandler(t *testing.T) {
	dispatcher := stripekit.NewDispatcher(stripekit.Config{WebhookSecret: testSecret})

	invoked := false
	dispatcher.RegisterHandler("customer.created", func(ctx context.Context, object map[string]any) error {
		invoked = true
		return nil
	})

	var gotEvent *stripekit.Event
	r := setupRouter(t, Config{
		Dispatcher: dispatcher,
		OnEvent: func(c *gongin.Context, event *stripekit.Event) {
			gotEvent = event
		},
	})

	payload := []byte(`{"id":"evt_1","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	rec := postWebhook(r, payload, signPayload(testSecret, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !invoked {
		t.Error("registered handler was not invoked")
	}
	if gotEvent == nil || gotEvent.ID != "evt_1" {
		t.Errorf("OnEvent got %+v, want evt_1", gotEvent)
	}
}

func TestWebhookHandlerErrors(t *testing.T) {
	dispatcher := stripekit.NewDispatcher(stripekit.Config{WebhookSecret: testSecret})
	r := setupRouter(t, Config{Dispatcher: dispatcher})

	payload := []byte(`{"id":"evt_1","type":"customer.created","data":{"object":{}}}`)

	tests := []struct {
		name    string
		payload []byte
		header  string
		want    int
	}{
		{"bad signature", payload, signPayload("whsec_wrong", payload), http.StatusUnauthorized},
		{"malformed payload", []byte(`{`), signPayload(testSecret, []byte(`{`)), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postWebhook(r, tt.payload, tt.header)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestWebhookHandlerOnError(t *testing.T) {
	dispatcher := stripekit.NewDispatcher(stripekit.Config{WebhookSecret: testSecret})

	r := setupRouter(t, Config{
		Dispatcher: dispatcher,
		OnError: func(c *gongin.Context, err error) {
			c.JSON(http.StatusTeapot, gongin.H{"custom": true})
		},
	})

	payload := []byte(`{"id":"evt_1","type":"t","data":{"object":{}}}`)
	rec := postWebhook(r, payload, "bad header")
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want custom OnError response", rec.Code)
	}
}
