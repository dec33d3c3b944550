package domain

import (
	"fmt"
	"time"
)

// SlotGranularity is the fixed size of a slot in the availability grid.
const SlotGranularity = 30 * time.Minute

// Default working hours searched when a request does not name bounds.
var (
	DefaultWorkStart = NewTimeOfDay(9, 0)
	DefaultWorkEnd   = NewTimeOfDay(18, 0)
)

// GenerateGrid discretizes [workStart, workEnd] into consecutive slots of the
// given granularity. A slot ending exactly on workEnd is included; a partial
// trailing slot is not. Counts on the returned slots are unset.
func GenerateGrid(workStart, workEnd TimeOfDay, granularity time.Duration) ([]TimeSlot, error) {
	if granularity <= 0 {
		return nil, fmt.Errorf("%w: granularity must be positive, got %s", ErrInvalidRange, granularity)
	}
	if !workStart.Before(workEnd) {
		return nil, fmt.Errorf("%w: work start %s must be before work end %s", ErrInvalidRange, workStart, workEnd)
	}

	slots := make([]TimeSlot, 0, int((workEnd-workStart).Duration()/granularity))
	for current := workStart; !workEnd.Before(current.Add(granularity)); current = current.Add(granularity) {
		slots = append(slots, TimeSlot{
			Start: current,
			End:   current.Add(granularity),
		})
	}
	return slots, nil
}
