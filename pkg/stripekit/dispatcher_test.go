package stripekit_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldercrank/stripekit/eventstore/memory"
	"github.com/eldercrank/stripekit/pkg/stripekit"
)

const testSecret = "whsec_test_secret"

// signPayload produces a Stripe-Signature header for payload under secret,
// timestamped now.
func signPayload(secret string, payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(id, eventType string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%q,"type":%q,"data":{"object":{"id":"cus_123","email":"jess@example.com"}}}`,
		id, eventType))
}

func newTestDispatcher() *stripekit.Dispatcher {
	return stripekit.NewDispatcher(stripekit.Config{WebhookSecret: testSecret})
}

func TestProcessWebhook(t *testing.T) {
	d := newTestDispatcher()

	var gotObject map[string]any
	d.RegisterHandler("customer.created", func(ctx context.Context, object map[string]any) error {
		gotObject = object
		return nil
	})

	payload := eventPayload("evt_1", "customer.created")
	event, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "customer.created", event.Type)
	require.NotNil(t, gotObject)
	assert.Equal(t, "cus_123", gotObject["id"])
	assert.Equal(t, "jess@example.com", gotObject["email"])
}

func TestProcessWebhookNoSecret(t *testing.T) {
	d := stripekit.NewDispatcher(stripekit.Config{})

	payload := eventPayload("evt_1", "customer.created")
	_, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
	assert.ErrorIs(t, err, stripekit.ErrNotConfigured)
}

func TestProcessWebhookSignatureMismatch(t *testing.T) {
	d := newTestDispatcher()

	invoked := false
	d.RegisterHandler(stripekit.WildcardEvent, func(ctx context.Context, object map[string]any) error {
		invoked = true
		return nil
	})

	payload := eventPayload("evt_1", "customer.created")

	tests := []struct {
		name   string
		header string
	}{
		{"wrong secret", signPayload("whsec_wrong", payload)},
		{"empty header", ""},
		{"garbage header", "t=abc,v1=nothex"},
		{"tampered payload", signPayload(testSecret, []byte(`{"id":"evt_other"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.ProcessWebhook(context.Background(), payload, tt.header)
			assert.ErrorIs(t, err, stripekit.ErrSignatureMismatch)
		})
	}
	assert.False(t, invoked, "no handler may run before the signature verifies")
}

func TestProcessWebhookMalformedPayload(t *testing.T) {
	d := newTestDispatcher()

	// The signatures are valid; the payloads are not. Verification must pass
	// and parsing must fail.
	tests := []struct {
		name    string
		payload []byte
	}{
		{"not json", []byte(`not json at all`)},
		{"missing type", []byte(`{"id":"evt_1","data":{"object":{}}}`)},
		{"missing data", []byte(`{"id":"evt_1","type":"customer.created"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.ProcessWebhook(context.Background(), tt.payload, signPayload(testSecret, tt.payload))
			assert.ErrorIs(t, err, stripekit.ErrMalformedPayload)
			assert.NotErrorIs(t, err, stripekit.ErrSignatureMismatch)
		})
	}
}

func TestProcessWebhookHandlerFailureContained(t *testing.T) {
	d := newTestDispatcher()

	var order []string
	d.RegisterHandler("customer.created", func(ctx context.Context, object map[string]any) error {
		order = append(order, "exact")
		return errors.New("database down")
	})
	d.RegisterHandler(stripekit.WildcardEvent, func(ctx context.Context, object map[string]any) error {
		order = append(order, "wildcard")
		return nil
	})

	payload := eventPayload("evt_1", "customer.created")
	event, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
	require.NoError(t, err, "handler failure must not fail the delivery")
	require.NotNil(t, event)
	assert.Equal(t, []string{"exact", "wildcard"}, order,
		"failing exact handler must not stop the wildcard handler")
}

func TestProcessWebhookHandlerPanicContained(t *testing.T) {
	d := newTestDispatcher()

	d.RegisterHandler("customer.created", func(ctx context.Context, object map[string]any) error {
		panic("handler bug")
	})
	wildcardRan := false
	d.RegisterHandler(stripekit.WildcardEvent, func(ctx context.Context, object map[string]any) error {
		wildcardRan = true
		return nil
	})

	payload := eventPayload("evt_1", "customer.created")
	_, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
	require.NoError(t, err)
	assert.True(t, wildcardRan, "panic in one handler must not stop the next")
}

func TestProcessWebhookNoHandlers(t *testing.T) {
	d := newTestDispatcher()

	payload := eventPayload("evt_1", "price.deleted")
	event, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
	require.NoError(t, err, "a delivery with no registered handlers still succeeds")
	assert.Equal(t, "price.deleted", event.Type)
}

func TestRegisterHandlerOverwrite(t *testing.T) {
	d := newTestDispatcher()

	var calls []string
	d.RegisterHandler("invoice.paid", func(ctx context.Context, object map[string]any) error {
		calls = append(calls, "first")
		return nil
	})
	d.RegisterHandler("invoice.paid", func(ctx context.Context, object map[string]any) error {
		calls = append(calls, "second")
		return nil
	})

	payload := eventPayload("evt_1", "invoice.paid")
	_, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, calls, "re-registration replaces the previous handler")
}

func TestUnregisterHandler(t *testing.T) {
	d := newTestDispatcher()

	invoked := false
	d.RegisterHandler("invoice.paid", func(ctx context.Context, object map[string]any) error {
		invoked = true
		return nil
	})
	d.UnregisterHandler("invoice.paid")
	d.UnregisterHandler("never.registered") // no-op

	payload := eventPayload("evt_1", "invoice.paid")
	_, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
	require.NoError(t, err)
	assert.False(t, invoked)
}

func TestProcessWebhookDeduplicates(t *testing.T) {
	d := stripekit.NewDispatcher(stripekit.Config{
		WebhookSecret: testSecret,
		EventStore:    memory.New(),
	})

	invocations := 0
	d.RegisterHandler("checkout.session.completed", func(ctx context.Context, object map[string]any) error {
		invocations++
		return nil
	})

	payload := eventPayload("evt_dup", "checkout.session.completed")
	header := signPayload(testSecret, payload)

	for i := 0; i < 3; i++ {
		event, err := d.ProcessWebhook(context.Background(), payload, header)
		require.NoError(t, err)
		require.NotNil(t, event, "duplicate deliveries still return the parsed event")
	}
	assert.Equal(t, 1, invocations, "handlers run once per event ID")
}

type failingStore struct{}

func (failingStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return false, errors.New("store unavailable")
}

func TestProcessWebhookStoreFailureDispatchesAnyway(t *testing.T) {
	d := stripekit.NewDispatcher(stripekit.Config{
		WebhookSecret: testSecret,
		EventStore:    failingStore{},
	})

	invoked := false
	d.RegisterHandler("customer.created", func(ctx context.Context, object map[string]any) error {
		invoked = true
		return nil
	})

	payload := eventPayload("evt_1", "customer.created")
	_, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
	require.NoError(t, err)
	assert.True(t, invoked, "a broken store must not drop deliveries")
}

func TestProcessWebhookConcurrent(t *testing.T) {
	d := newTestDispatcher()

	var mu sync.Mutex
	seen := make(map[string]int)
	d.RegisterHandler(stripekit.WildcardEvent, func(ctx context.Context, object map[string]any) error {
		mu.Lock()
		defer mu.Unlock()
		seen[fmt.Sprint(object["id"])]++
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := eventPayload(fmt.Sprintf("evt_%d", i), "customer.created")
			_, err := d.ProcessWebhook(context.Background(), payload, signPayload(testSecret, payload))
			assert.NoError(t, err)
		}(i)
	}
	// Registration concurrent with dispatch must be safe.
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.RegisterHandler(fmt.Sprintf("type.%d", i), func(ctx context.Context, object map[string]any) error {
				return nil
			})
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 1, "all deliveries carry the same object id")
	assert.Equal(t, 20, seen["cus_123"])
}
