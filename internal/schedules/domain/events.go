package domain

import (
	"time"

	availability "github.com/felixgeelhaar/schedly/internal/availability/domain"
	sharedDomain "github.com/felixgeelhaar/schedly/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "ScheduleEntry"

	RoutingKeyEntryRecorded = "schedules.entry.recorded"
	RoutingKeyEntryUpdated  = "schedules.entry.updated"
	RoutingKeyEntryRemoved  = "schedules.entry.removed"
)

// EntryChanged is the payload shared by all schedule entry events.
type EntryChanged struct {
	EntryID   uuid.UUID `json:"entry_id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Kind      string    `json:"kind"`
}

func entryChanged(e *ScheduleEntry) EntryChanged {
	return EntryChanged{
		EntryID:   e.ID(),
		UserID:    e.userID,
		Date:      e.date.Format(availability.DateLayout),
		StartTime: e.start.String(),
		EndTime:   e.end.String(),
		Kind:      string(e.kind),
	}
}

// EntryRecorded is emitted when an entry is created.
type EntryRecorded struct {
	sharedDomain.BaseEvent
	EntryChanged
}

func NewEntryRecorded(e *ScheduleEntry) *EntryRecorded {
	return &EntryRecorded{
		BaseEvent:    sharedDomain.NewBaseEvent(e.ID(), AggregateType, RoutingKeyEntryRecorded),
		EntryChanged: entryChanged(e),
	}
}

// EntryUpdated is emitted when an entry changes. PreviousDate is the date
// before the change, which may equal Date.
type EntryUpdated struct {
	sharedDomain.BaseEvent
	EntryChanged
	PreviousDate string `json:"previous_date"`
}

func NewEntryUpdated(e *ScheduleEntry, previousDate time.Time) *EntryUpdated {
	return &EntryUpdated{
		BaseEvent:    sharedDomain.NewBaseEvent(e.ID(), AggregateType, RoutingKeyEntryUpdated),
		EntryChanged: entryChanged(e),
		PreviousDate: previousDate.Format(availability.DateLayout),
	}
}

// EntryRemoved is emitted when an entry is deleted.
type EntryRemoved struct {
	sharedDomain.BaseEvent
	EntryChanged
}

func NewEntryRemoved(e *ScheduleEntry) *EntryRemoved {
	return &EntryRemoved{
		BaseEvent:    sharedDomain.NewBaseEvent(e.ID(), AggregateType, RoutingKeyEntryRemoved),
		EntryChanged: entryChanged(e),
	}
}
