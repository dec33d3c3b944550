package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Routing keys of the schedule events that affect recommendations.
const (
	ScheduleEntryRecorded = "schedules.entry.recorded"
	ScheduleEntryUpdated  = "schedules.entry.updated"
	ScheduleEntryRemoved  = "schedules.entry.removed"
)

// GroupResolver lists the groups a user belongs to.
type GroupResolver interface {
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Invalidator drops cached recommendations for a group and date.
type Invalidator interface {
	Invalidate(ctx context.Context, groupID uuid.UUID, date time.Time) error
}

// ScheduleChangedPayload is the part of a schedule event payload this
// subscriber reads. PreviousDate is set when an update moved the entry.
type ScheduleChangedPayload struct {
	UserID       uuid.UUID `json:"user_id"`
	Date         string    `json:"date"`
	PreviousDate string    `json:"previous_date,omitempty"`
}

// ScheduleChangedSubscriber invalidates cached recommendations of every
// group the changed schedule's owner belongs to, for each affected date.
type ScheduleChangedSubscriber struct {
	groups      GroupResolver
	invalidator Invalidator
	logger      *slog.Logger
}

// NewScheduleChangedSubscriber creates a new subscriber.
func NewScheduleChangedSubscriber(groups GroupResolver, invalidator Invalidator, logger *slog.Logger) *ScheduleChangedSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleChangedSubscriber{
		groups:      groups,
		invalidator: invalidator,
		logger:      logger,
	}
}

// EventTypes returns the event types this subscriber handles.
func (s *ScheduleChangedSubscriber) EventTypes() []string {
	return []string{
		ScheduleEntryRecorded,
		ScheduleEntryUpdated,
		ScheduleEntryRemoved,
	}
}

// Handle processes an event. Malformed payloads are logged and dropped;
// lookup and invalidation failures are returned so the event is redelivered.
func (s *ScheduleChangedSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload ScheduleChangedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		s.logger.Warn("dropping schedule event with malformed payload",
			"event_id", event.EventID,
			"routing_key", event.RoutingKey,
			"error", err,
		)
		return nil
	}

	userID := payload.UserID
	if userID == uuid.Nil {
		userID = event.Metadata.UserID
	}
	dates := s.affectedDates(event, payload)
	if userID == uuid.Nil || len(dates) == 0 {
		s.logger.Warn("dropping schedule event without user or date",
			"event_id", event.EventID,
			"routing_key", event.RoutingKey,
		)
		return nil
	}

	groupIDs, err := s.groups.ListGroupsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve groups of user %s: %w", userID, err)
	}
	if len(groupIDs) == 0 {
		s.logger.Debug("schedule owner is in no group, nothing to invalidate", "user_id", userID)
		return nil
	}

	var errs []error
	for _, groupID := range groupIDs {
		for _, date := range dates {
			if err := s.invalidator.Invalidate(ctx, groupID, date); err != nil {
				errs = append(errs, fmt.Errorf("invalidate group %s on %s: %w",
					groupID, date.Format(domain.DateLayout), err))
			}
		}
	}

	s.logger.Info("recommendations invalidated for schedule change",
		"routing_key", event.RoutingKey,
		"user_id", userID,
		"groups", len(groupIDs),
		"dates", len(dates),
		"failures", len(errs),
	)
	return errors.Join(errs...)
}

func (s *ScheduleChangedSubscriber) affectedDates(event *eventbus.ConsumedEvent, payload ScheduleChangedPayload) []time.Time {
	var dates []time.Time
	for _, raw := range []string{payload.Date, payload.PreviousDate} {
		if raw == "" {
			continue
		}
		date, err := domain.ParseDate(raw)
		if err != nil {
			s.logger.Warn("ignoring unparseable date in schedule event",
				"event_id", event.EventID,
				"date", raw,
			)
			continue
		}
		if len(dates) == 1 && dates[0].Equal(date) {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}
