package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"cofrinho/internal/core"
)

type EventType string

const (
	EventEntryAppended EventType = "entry.appended"
	EventEntryRemoved  EventType = "entry.removed"
)

// LedgerEvent describes one ledger mutation. Descriptions stay out of the
// payload; consumers only need the figures.
type LedgerEvent struct {
	Type      EventType `json:"type"`
	EntryID   string    `json:"entry_id"`
	Month     int       `json:"month"`
	Amount    float64   `json:"amount"`
	Kind      string    `json:"kind"`
	Category  string    `json:"category"`
	Owner     string    `json:"owner"`
	Timestamp time.Time `json:"timestamp"`
}

func newLedgerEvent(t EventType, e core.Entry) *LedgerEvent {
	return &LedgerEvent{
		Type:      t,
		EntryID:   e.ID,
		Month:     e.Month(),
		Amount:    e.Amount,
		Kind:      string(e.Kind),
		Category:  string(e.Category),
		Owner:     string(e.Owner),
		Timestamp: time.Now(),
	}
}

func NewAppendedEvent(e core.Entry) *LedgerEvent {
	return newLedgerEvent(EventEntryAppended, e)
}

func NewRemovedEvent(e core.Entry) *LedgerEvent {
	return newLedgerEvent(EventEntryRemoved, e)
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes an event and rejects payloads without a type
// or entry ID.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" || msg.EntryID == "" {
		return nil, errors.New("ledger event missing type or entry id")
	}
	return &msg, nil
}
