package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	availability "github.com/felixgeelhaar/schedly/internal/availability/domain"
	sharedDomain "github.com/felixgeelhaar/schedly/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEntryNotFound   = errors.New("schedule entry not found")
	ErrNotEntryOwner   = errors.New("schedule entry belongs to another user")
	ErrInvalidKind     = errors.New("invalid schedule entry kind")
	ErrInvalidInterval = fmt.Errorf("%w: invalid schedule entry interval", availability.ErrInvalidRange)
)

// Kind classifies a schedule entry. Only busy entries block availability.
type Kind string

const (
	KindBusy      Kind = "busy"
	KindAvailable Kind = "available"
	KindPreferred Kind = "preferred"
)

// ParseKind accepts a kind name case-insensitively. Empty means busy.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindBusy, nil
	case KindBusy, KindAvailable, KindPreferred:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// ScheduleEntry is one interval on a user's calendar day.
type ScheduleEntry struct {
	sharedDomain.BaseAggregateRoot
	userID uuid.UUID
	date   time.Time
	start  availability.TimeOfDay
	end    availability.TimeOfDay
	kind   Kind
	title  string
}

// NewScheduleEntry records a new entry for the user.
func NewScheduleEntry(userID uuid.UUID, date time.Time, start, end availability.TimeOfDay, kind Kind, title string) (*ScheduleEntry, error) {
	if userID == uuid.Nil {
		return nil, errors.New("user id is required")
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInterval)
	}
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}
	if kind == "" {
		kind = KindBusy
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	entry := &ScheduleEntry{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		date:              availability.NormalizeDate(date),
		start:             start,
		end:               end,
		kind:              kind,
		title:             strings.TrimSpace(title),
	}
	entry.AddDomainEvent(NewEntryRecorded(entry))
	return entry, nil
}

// RehydrateScheduleEntry recreates an entry from persisted state.
func RehydrateScheduleEntry(
	id, userID uuid.UUID,
	date time.Time,
	start, end availability.TimeOfDay,
	kind Kind,
	title string,
	createdAt, updatedAt time.Time,
) *ScheduleEntry {
	return &ScheduleEntry{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(id, createdAt, updatedAt),
		userID:            userID,
		date:              availability.NormalizeDate(date),
		start:             start,
		end:               end,
		kind:              kind,
		title:             title,
	}
}

func (e *ScheduleEntry) UserID() uuid.UUID             { return e.userID }
func (e *ScheduleEntry) Date() time.Time               { return e.date }
func (e *ScheduleEntry) Start() availability.TimeOfDay { return e.start }
func (e *ScheduleEntry) End() availability.TimeOfDay   { return e.end }
func (e *ScheduleEntry) Kind() Kind                    { return e.kind }
func (e *ScheduleEntry) Title() string                 { return e.title }
func (e *ScheduleEntry) IsBusy() bool                  { return e.kind == KindBusy }
func (e *ScheduleEntry) OwnedBy(userID uuid.UUID) bool { return e.userID == userID }

// Changes lists the fields an update sets. Nil fields are left unchanged.
type Changes struct {
	Date  *time.Time
	Start *availability.TimeOfDay
	End   *availability.TimeOfDay
	Kind  *Kind
	Title *string
}

// Update applies changes and records an EntryUpdated event carrying the
// previous date. An update that changes nothing records no event.
func (e *ScheduleEntry) Update(changes Changes) error {
	date, start, end, kind, title := e.date, e.start, e.end, e.kind, e.title
	if changes.Date != nil {
		if changes.Date.IsZero() {
			return fmt.Errorf("%w: date is required", ErrInvalidInterval)
		}
		date = availability.NormalizeDate(*changes.Date)
	}
	if changes.Start != nil {
		start = *changes.Start
	}
	if changes.End != nil {
		end = *changes.End
	}
	if changes.Kind != nil {
		parsed, err := ParseKind(string(*changes.Kind))
		if err != nil {
			return err
		}
		kind = parsed
	}
	if changes.Title != nil {
		title = strings.TrimSpace(*changes.Title)
	}
	if err := validateInterval(start, end); err != nil {
		return err
	}

	if date.Equal(e.date) && start == e.start && end == e.end && kind == e.kind && title == e.title {
		return nil
	}

	previousDate := e.date
	e.date, e.start, e.end, e.kind, e.title = date, start, end, kind, title
	e.Touch()
	e.AddDomainEvent(NewEntryUpdated(e, previousDate))
	return nil
}

// MarkRemoved records an EntryRemoved event. The repository deletes the row.
func (e *ScheduleEntry) MarkRemoved() {
	e.AddDomainEvent(NewEntryRemoved(e))
}

// BusyInterval projects a busy entry for availability evaluation.
func (e *ScheduleEntry) BusyInterval() availability.BusyInterval {
	return availability.BusyInterval{
		UserID: e.userID,
		Date:   e.date,
		Start:  e.start,
		End:    e.end,
	}
}

func validateInterval(start, end availability.TimeOfDay) error {
	if start < 0 || end > availability.NewTimeOfDay(24, 0) {
		return fmt.Errorf("%w: %s-%s is outside the day", ErrInvalidInterval, start, end)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidInterval, start, end)
	}
	if start.Duration()%time.Minute != 0 || end.Duration()%time.Minute != 0 {
		return fmt.Errorf("%w: bounds must be whole minutes", ErrInvalidInterval)
	}
	return nil
}
