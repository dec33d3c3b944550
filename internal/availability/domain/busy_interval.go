package domain

import (
	"time"

	"github.com/google/uuid"
)

// BusyInterval is a period on one day during which a user is unavailable.
// It is owned by the schedule store and read-only here.
type BusyInterval struct {
	UserID uuid.UUID
	Date   time.Time
	Start  TimeOfDay
	End    TimeOfDay
}

// ConflictsWith reports whether the interval overlaps [start, end).
// Touching boundaries do not conflict.
func (b BusyInterval) ConflictsWith(start, end TimeOfDay) bool {
	return b.Start < end && start < b.End
}

// OnDate reports whether the interval falls on the given calendar day.
func (b BusyInterval) OnDate(date time.Time) bool {
	return NormalizeDate(b.Date).Equal(NormalizeDate(date))
}
