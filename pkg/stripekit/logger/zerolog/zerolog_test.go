package zerolog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eldercrank/stripekit/pkg/stripekit"
)

func TestLoggerWritesAllLevels(t *testing.T) {
	levels := []struct {
		name string
		log  func(l *Logger, msg string, fields ...stripekit.Field)
	}{
		{"debug", (*Logger).Debug},
		{"info", (*Logger).Info},
		{"warn", (*Logger).Warn},
		{"error", (*Logger).Error},
	}

	for _, lvl := range levels {
		t.Run(lvl.name, func(t *testing.T) {
			var output bytes.Buffer
			logger := NewLogger(zerolog.New(&output))

			lvl.log(logger, "test message", stripekit.Field{Key: "event_type", Value: "customer.created"})

			if output.Len() == 0 {
				t.Fatalf("expected %s log to be written", lvl.name)
			}

			var record map[string]any
			if err := json.Unmarshal(output.Bytes(), &record); err != nil {
				t.Fatalf("log output is not JSON: %v", err)
			}
			if record["message"] != "test message" {
				t.Errorf("message = %v, want test message", record["message"])
			}
			if record["event_type"] != "customer.created" {
				t.Errorf("event_type = %v, want customer.created", record["event_type"])
			}
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var output bytes.Buffer
	logger := NewLogger(zerolog.New(&output).Level(zerolog.WarnLevel))

	logger.Debug("debug message")
	logger.Info("info message")
	if output.Len() != 0 {
		t.Error("expected debug and info to be filtered out")
	}

	logger.Warn("warn message")
	if output.Len() == 0 {
		t.Error("expected warn to be logged")
	}
}

func TestLoggerMultipleFields(t *testing.T) {
	var output bytes.Buffer
	logger := NewLogger(zerolog.New(&output))

	logger.Info("received stripe event",
		stripekit.Field{Key: "event_id", Value: "evt_1"},
		stripekit.Field{Key: "event_type", Value: "invoice.paid"},
		stripekit.Field{Key: "attempt", Value: 3},
	)

	var record map[string]any
	if err := json.Unmarshal(output.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if record["event_id"] != "evt_1" || record["event_type"] != "invoice.paid" {
		t.Errorf("fields missing from record: %v", record)
	}
	if record["attempt"] != float64(3) {
		t.Errorf("attempt = %v, want 3", record["attempt"])
	}
}
