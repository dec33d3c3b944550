package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a discretized span of the working day with its availability.
type TimeSlot struct {
	Start          TimeOfDay
	End            TimeOfDay
	AvailableCount int
	TotalCount     int
}

// AvailabilityScore is the fraction of members free for the slot.
func (s TimeSlot) AvailabilityScore() float64 {
	return score(s.AvailableCount, s.TotalCount)
}

// RecommendationWindow is a ranked candidate meeting window for a group.
type RecommendationWindow struct {
	GroupID           uuid.UUID `json:"group_id"`
	TargetDate        time.Time `json:"target_date"`
	Start             TimeOfDay `json:"start_time"`
	End               TimeOfDay `json:"end_time"`
	AvailableCount    int       `json:"available_count"`
	TotalCount        int       `json:"total_count"`
	AvailabilityScore float64   `json:"availability_score"`
}

// NewRecommendationWindows stamps aggregated slots with their group and date.
func NewRecommendationWindows(groupID uuid.UUID, targetDate time.Time, slots []TimeSlot) []RecommendationWindow {
	date := NormalizeDate(targetDate)
	windows := make([]RecommendationWindow, len(slots))
	for i, slot := range slots {
		windows[i] = RecommendationWindow{
			GroupID:           groupID,
			TargetDate:        date,
			Start:             slot.Start,
			End:               slot.End,
			AvailableCount:    slot.AvailableCount,
			TotalCount:        slot.TotalCount,
			AvailabilityScore: slot.AvailabilityScore(),
		}
	}
	return windows
}

// Duration returns the span of the window.
func (w RecommendationWindow) Duration() time.Duration {
	return w.End.Duration() - w.Start.Duration()
}

func score(available, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(available) / float64(total)
}
