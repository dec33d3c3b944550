package application

import (
	"context"

	"github.com/felixgeelhaar/schedly/internal/shared/domain"
	"github.com/felixgeelhaar/schedly/pkg/observability"
	"github.com/google/uuid"
)

// StampEvents attaches the acting user and the request's correlation ID to
// events. All events from one command share a causation ID. A correlation
// ID that is not a UUID is replaced.
func StampEvents(ctx context.Context, actor uuid.UUID, events []domain.DomainEvent) {
	if len(events) == 0 {
		return
	}
	correlationID, err := uuid.Parse(observability.CorrelationIDFromContext(ctx))
	if err != nil {
		correlationID = uuid.New()
	}
	meta := domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
		UserID:        actor,
	}
	for _, event := range events {
		event.Stamp(meta)
	}
}
