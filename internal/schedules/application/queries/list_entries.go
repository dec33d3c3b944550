package queries

import (
	"context"
	"fmt"
	"time"

	availability "github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/internal/schedules/domain"
	"github.com/google/uuid"
)

// EntryDTO is a data transfer object for schedule entries.
type EntryDTO struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Date   string    `json:"date"`
	Start  string    `json:"start_time"`
	End    string    `json:"end_time"`
	Kind   string    `json:"kind"`
	Title  string    `json:"title,omitempty"`
}

// ListEntriesQuery lists one user's entries between two dates, inclusive.
// A zero To lists the From date alone.
type ListEntriesQuery struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

// ListEntriesHandler handles the ListEntriesQuery.
type ListEntriesHandler struct {
	entryRepo domain.Repository
}

// NewListEntriesHandler creates a new ListEntriesHandler.
func NewListEntriesHandler(entryRepo domain.Repository) *ListEntriesHandler {
	return &ListEntriesHandler{entryRepo: entryRepo}
}

// Handle returns entries ordered by date, then start time.
func (h *ListEntriesHandler) Handle(ctx context.Context, query ListEntriesQuery) ([]EntryDTO, error) {
	if query.From.IsZero() {
		return nil, fmt.Errorf("%w: from date is required", availability.ErrInvalidRange)
	}
	from := availability.NormalizeDate(query.From)
	to := from
	if !query.To.IsZero() {
		to = availability.NormalizeDate(query.To)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", availability.ErrInvalidRange,
			to.Format(availability.DateLayout), from.Format(availability.DateLayout))
	}

	entries, err := h.entryRepo.FindByUserBetween(ctx, query.UserID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryDTO{
			ID:     e.ID(),
			UserID: e.UserID(),
			Date:   e.Date().Format(availability.DateLayout),
			Start:  e.Start().String(),
			End:    e.End().String(),
			Kind:   string(e.Kind()),
			Title:  e.Title(),
		})
	}
	return dtos, nil
}
