package events

import (
	"time"

	"insurance-assistant-be/pkg/dialog/flow"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RECORD_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent carries the common fields of concrete events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// EventTypeRecordCreated fires when a conversation flow completes and its
// record is persisted.
const EventTypeRecordCreated = "RECORD_CREATED"

// NewRecordCreatedEvent builds the bus event for a freshly stored record.
func NewRecordCreatedEvent(record *flow.Record) Event {
	data := map[string]interface{}{
		"record_id":        record.Id.String(),
		"kind":             record.Kind,
		"reference_number": record.ReferenceNumber(),
	}
	for k, v := range record.Fields {
		data[k] = v
	}
	return BaseEvent{
		Type:       EventTypeRecordCreated,
		Data:       data,
		OccurredAt: record.CreatedAt,
	}
}
