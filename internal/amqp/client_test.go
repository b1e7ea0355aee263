package amqp

import (
	"strings"
	"testing"
	"time"
)

func TestLedgerChangedMessage_JSON(t *testing.T) {
	msg := NewLedgerChangedMessage("subscriptions", 7, 3)
	if msg.Timestamp.IsZero() || msg.Timestamp.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", msg.Timestamp)
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	for _, key := range []string{`"slot":"subscriptions"`, `"version":7`, `"count":3`, `"timestamp"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("payload %s missing %s", data, key)
		}
	}

	got, err := LedgerChangedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Slot != msg.Slot || got.Version != msg.Version || got.Count != msg.Count {
		t.Fatalf("decoded %+v, want %+v", got, msg)
	}
}

func TestLedgerChangedMessageFromJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `hello`},
		{"wrong type", `{"slot":1}`},
		{"missing slot", `{"version":1,"count":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LedgerChangedMessageFromJSON([]byte(tt.body)); err == nil {
				t.Errorf("expected error for %s", tt.body)
			}
		})
	}
}
