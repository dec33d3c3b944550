package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/schedly/internal/shared/domain"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Message is a domain event waiting in the outbox table. Payload holds the
// full eventbus.ConsumedEvent envelope so every transport delivers the same
// bytes.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage wraps a domain event in the envelope consumers decode.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	h := event.Header()
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", h.RoutingKey, err)
	}

	payload, err := json.Marshal(eventbus.ConsumedEvent{
		EventID:       h.EventID,
		AggregateID:   h.AggregateID,
		AggregateType: h.AggregateType,
		RoutingKey:    h.RoutingKey,
		OccurredAt:    h.OccurredAt,
		Payload:       body,
		Metadata: eventbus.EventMetadata{
			UserID:        h.Metadata.UserID,
			CorrelationID: uuidString(h.Metadata.CorrelationID),
			CausationID:   uuidString(h.Metadata.CausationID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", h.RoutingKey, err)
	}
	metadata, err := json.Marshal(h.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode %s metadata: %w", h.RoutingKey, err)
	}

	return &Message{
		EventID:       h.EventID,
		AggregateType: h.AggregateType,
		AggregateID:   h.AggregateID,
		EventType:     h.RoutingKey,
		RoutingKey:    h.RoutingKey,
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     h.OccurredAt,
	}, nil
}

// NewMessages converts events in order.
func NewMessages(events []domain.DomainEvent) ([]*Message, error) {
	msgs := make([]*Message, 0, len(events))
	for _, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// IsPublished returns true if the message has been published.
func (m *Message) IsPublished() bool {
	return m.PublishedAt != nil
}

func uuidString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
