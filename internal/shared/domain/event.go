package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. The exported fields of the
// concrete type are its payload; Header carries the routing envelope.
type DomainEvent interface {
	Header() EventHeader
	Stamp(meta EventMetadata)
}

// EventHeader identifies an event and where it is routed.
type EventHeader struct {
	EventID       uuid.UUID
	AggregateID   uuid.UUID
	AggregateType string
	RoutingKey    string
	OccurredAt    time.Time
	Metadata      EventMetadata
}

// EventMetadata ties an event to the command that caused it.
type EventMetadata struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
	CausationID   uuid.UUID `json:"causation_id"`
	UserID        uuid.UUID `json:"user_id"`
}

// BaseEvent is embedded by concrete events. It has no exported fields, so
// it adds nothing to the JSON payload.
type BaseEvent struct {
	header EventHeader
}

// NewBaseEvent starts an event for the given aggregate.
func NewBaseEvent(aggregateID uuid.UUID, aggregateType, routingKey string) BaseEvent {
	return BaseEvent{header: EventHeader{
		EventID:       uuid.New(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		RoutingKey:    routingKey,
		OccurredAt:    time.Now().UTC(),
	}}
}

func (e BaseEvent) Header() EventHeader { return e.header }

// Stamp attaches command metadata.
func (e *BaseEvent) Stamp(meta EventMetadata) { e.header.Metadata = meta }
