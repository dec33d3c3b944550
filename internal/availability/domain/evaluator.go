package domain

import (
	"time"

	"github.com/google/uuid"
)

// EvaluateAvailability fills AvailableCount and TotalCount for each slot.
// A member is unavailable for a slot when any of their busy intervals on the
// target date conflicts with it. Intervals of non-members or other dates are
// ignored. The input slice is not modified.
func EvaluateAvailability(
	slots []TimeSlot,
	members []uuid.UUID,
	intervals []BusyInterval,
	date time.Time,
) []TimeSlot {
	byMember := make(map[uuid.UUID][]BusyInterval, len(members))
	for _, member := range members {
		byMember[member] = nil
	}
	for _, interval := range intervals {
		if _, ok := byMember[interval.UserID]; !ok || !interval.OnDate(date) {
			continue
		}
		byMember[interval.UserID] = append(byMember[interval.UserID], interval)
	}

	evaluated := make([]TimeSlot, len(slots))
	for i, slot := range slots {
		available := 0
		for _, member := range members {
			if isFree(byMember[member], slot) {
				available++
			}
		}
		slot.AvailableCount = available
		slot.TotalCount = len(members)
		evaluated[i] = slot
	}
	return evaluated
}

func isFree(intervals []BusyInterval, slot TimeSlot) bool {
	for _, interval := range intervals {
		if interval.ConflictsWith(slot.Start, slot.End) {
			return false
		}
	}
	return true
}
