package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/google/uuid"
)

// Invalidator drops cached recommendations for a group and date.
type Invalidator interface {
	Invalidate(ctx context.Context, groupID uuid.UUID, date time.Time) error
}

// InvalidateRecommendationsCommand invalidates one group across one or more dates.
type InvalidateRecommendationsCommand struct {
	GroupID uuid.UUID
	Dates   []time.Time
}

// InvalidateRecommendationsHandler handles InvalidateRecommendationsCommand.
type InvalidateRecommendationsHandler struct {
	invalidator Invalidator
}

// NewInvalidateRecommendationsHandler creates a new handler.
func NewInvalidateRecommendationsHandler(invalidator Invalidator) *InvalidateRecommendationsHandler {
	return &InvalidateRecommendationsHandler{invalidator: invalidator}
}

// Handle invalidates every distinct date in the command. All dates are
// attempted; failures are joined.
func (h *InvalidateRecommendationsHandler) Handle(ctx context.Context, cmd InvalidateRecommendationsCommand) error {
	if cmd.GroupID == uuid.Nil {
		return fmt.Errorf("%w: group id is required", domain.ErrInvalidRange)
	}
	if len(cmd.Dates) == 0 {
		return fmt.Errorf("%w: at least one date is required", domain.ErrInvalidRange)
	}

	var errs []error
	for _, date := range distinctDates(cmd.Dates) {
		if err := h.invalidator.Invalidate(ctx, cmd.GroupID, date); err != nil {
			errs = append(errs, fmt.Errorf("invalidate %s: %w", date.Format(domain.DateLayout), err))
		}
	}
	return errors.Join(errs...)
}

func distinctDates(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		day := domain.NormalizeDate(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	return out
}
