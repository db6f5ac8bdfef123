package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Aggregate string    `json:"aggregate_id"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a base event with a fresh id and timestamp
func NewBaseEvent(eventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Aggregate: aggregateID,
		Timestamp: time.Now(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
