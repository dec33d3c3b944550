package domain

import (
	"fmt"
	"sort"
	"time"
)

// MaxRecommendations caps the number of ranked windows returned.
const MaxRecommendations = 10

// RequiredSlots returns how many consecutive slots cover the duration,
// rounding up to whole slots.
func RequiredSlots(duration, granularity time.Duration) (int, error) {
	if granularity <= 0 {
		return 0, fmt.Errorf("%w: granularity must be positive, got %s", ErrInvalidRange, granularity)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidRange, duration)
	}
	required := int(duration / granularity)
	if duration%granularity != 0 {
		required++
	}
	return required, nil
}

// AggregateWindows slides a window of RequiredSlots consecutive slots across
// the evaluated grid. Each window is as available as its worst slot, so every
// member counted is free for the whole span. Windows nobody can attend are
// dropped; the rest are ranked by descending score, earlier start first on
// ties, and capped at MaxRecommendations.
func AggregateWindows(slots []TimeSlot, duration, granularity time.Duration) ([]TimeSlot, error) {
	required, err := RequiredSlots(duration, granularity)
	if err != nil {
		return nil, err
	}

	windows := make([]TimeSlot, 0)
	for i := 0; i+required <= len(slots); i++ {
		span := slots[i : i+required]

		minAvailable := span[0].AvailableCount
		for _, slot := range span[1:] {
			if slot.AvailableCount < minAvailable {
				minAvailable = slot.AvailableCount
			}
		}
		if minAvailable <= 0 {
			continue
		}

		windows = append(windows, TimeSlot{
			Start:          span[0].Start,
			End:            span[len(span)-1].End,
			AvailableCount: minAvailable,
			TotalCount:     span[0].TotalCount,
		})
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].AvailabilityScore() > windows[j].AvailabilityScore()
	})

	if len(windows) > MaxRecommendations {
		windows = windows[:MaxRecommendations]
	}
	return windows, nil
}
