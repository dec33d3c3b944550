package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists schedule entries. FindByID returns ErrEntryNotFound
// when the entry does not exist.
type Repository interface {
	Save(ctx context.Context, entry *ScheduleEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduleEntry, error)
	// FindByUserBetween returns entries dated within [from, to], ordered by
	// date and start.
	FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*ScheduleEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
