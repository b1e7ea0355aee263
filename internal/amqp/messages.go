package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// LedgerChangedMessage announces that a storage slot was rewritten.
// Consumers reload the slot rather than trusting a payload.
type LedgerChangedMessage struct {
	Slot      string    `json:"slot"`
	Version   int64     `json:"version"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(slot string, version int64, count int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Slot:      slot,
		Version:   version,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Slot == "" {
		return nil, errors.New("ledger changed message without slot")
	}
	return &msg, nil
}
