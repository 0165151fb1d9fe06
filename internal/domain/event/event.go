package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event raised after a ledger change
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	AggregateID   string                 `json:"aggregate_id"` // batch, order or credit id
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// Payload keys shared by publishers and handlers
const (
	KeyCommand = "command"
	KeyEntries = "entries"
	KeyPrices  = "prices"
	KeyCount   = "count"
)

// NewEvent creates a new domain event with a fresh ID, timestamp and correlation chain
func NewEvent(eventType Type, aggregateID string, payload map[string]interface{}) *Event {
	id := uuid.NewString()
	return &Event{
		ID:            id,
		Type:          eventType,
		AggregateID:   aggregateID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: id,
	}
}

// Follow creates an event that continues the correlation chain of e
func (e *Event) Follow(eventType Type, aggregateID string, payload map[string]interface{}) *Event {
	next := NewEvent(eventType, aggregateID, payload)
	next.CorrelationID = e.CorrelationID
	return next
}

// WithPayload returns a copy of e with key set; e is not modified
func (e *Event) WithPayload(key string, value interface{}) *Event {
	payload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	payload[key] = value

	clone := *e
	clone.Payload = payload
	return &clone
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if str, ok := e.Payload[key].(string); ok {
		return str
	}
	return ""
}

// GetPayloadInt retrieves an int64 value from the payload
func (e *Event) GetPayloadInt(key string) int64 {
	switch v := e.Payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
