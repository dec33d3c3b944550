package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func busy(userID uuid.UUID, date time.Time, start, end string) domain.BusyInterval {
	s, _ := domain.ParseTimeOfDay(start)
	e, _ := domain.ParseTimeOfDay(end)
	return domain.BusyInterval{UserID: userID, Date: date, Start: s, End: e}
}

func TestBusyInterval_ConflictsWith(t *testing.T) {
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	interval := busy(uuid.New(), date, "09:00", "10:00")

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"same span", "09:00", "10:00", true},
		{"inside", "09:15", "09:45", true},
		{"overlaps start", "08:30", "09:30", true},
		{"overlaps end", "09:30", "10:30", true},
		{"touches end", "10:00", "10:30", false},
		{"touches start", "08:30", "09:00", false},
		{"disjoint", "11:00", "12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := domain.ParseTimeOfDay(tt.start)
			e, _ := domain.ParseTimeOfDay(tt.end)
			assert.Equal(t, tt.want, interval.ConflictsWith(s, e))
		})
	}
}

func TestEvaluateAvailability(t *testing.T) {
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	alice, bob := uuid.New(), uuid.New()
	slots, err := domain.GenerateGrid(domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(11, 0), domain.SlotGranularity)
	require.NoError(t, err)

	intervals := []domain.BusyInterval{
		busy(alice, date, "09:00", "10:00"),
		busy(bob, date, "09:45", "10:15"),
	}

	evaluated := domain.EvaluateAvailability(slots, []uuid.UUID{alice, bob}, intervals, date)

	require.Len(t, evaluated, 4)
	got := []int{}
	for _, slot := range evaluated {
		assert.Equal(t, 2, slot.TotalCount)
		got = append(got, slot.AvailableCount)
	}
	assert.Equal(t, []int{1, 0, 1, 2}, got)
	assert.Zero(t, slots[0].TotalCount, "input slots must not be mutated")
}

func TestEvaluateAvailability_IgnoresOtherDatesAndNonMembers(t *testing.T) {
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	member, outsider := uuid.New(), uuid.New()
	slots, err := domain.GenerateGrid(domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(10, 0), domain.SlotGranularity)
	require.NoError(t, err)

	intervals := []domain.BusyInterval{
		busy(member, date.AddDate(0, 0, 1), "09:00", "10:00"),
		busy(outsider, date, "09:00", "10:00"),
	}

	evaluated := domain.EvaluateAvailability(slots, []uuid.UUID{member}, intervals, date)

	for _, slot := range evaluated {
		assert.Equal(t, 1, slot.AvailableCount)
		assert.Equal(t, 1, slot.TotalCount)
	}
}

func TestEvaluateAvailability_NoMembers(t *testing.T) {
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	slots, err := domain.GenerateGrid(domain.DefaultWorkStart, domain.DefaultWorkEnd, domain.SlotGranularity)
	require.NoError(t, err)

	evaluated := domain.EvaluateAvailability(slots, nil, nil, date)

	for _, slot := range evaluated {
		assert.Zero(t, slot.TotalCount)
		assert.Zero(t, slot.AvailabilityScore())
	}
}
