package stripekit

import (
	"errors"
	"testing"
)

func TestNewManagerRequiresAPIKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		if _, err := NewManager(Config{APIKey: key}); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("NewManager(APIKey=%q) error = %v, want ErrNotConfigured", key, err)
		}
	}
}

func TestNewManager(t *testing.T) {
	m, err := NewManager(Config{APIKey: "sk_test_123", WebhookSecret: "whsec_123"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if m.Dispatcher == nil {
		t.Error("Manager has no embedded Dispatcher")
	}
}

func TestListLimit(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{0, defaultListLimit},
		{-5, defaultListLimit},
		{25, 25},
	}
	for _, tt := range tests {
		if got := *listLimit(tt.in); got != tt.want {
			t.Errorf("listLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOptString(t *testing.T) {
	if optString("") != nil {
		t.Error("optString(\"\") != nil")
	}
	if got := optString("hello"); got == nil || *got != "hello" {
		t.Errorf("optString(hello) = %v", got)
	}
}
