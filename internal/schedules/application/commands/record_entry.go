package commands

import (
	"context"
	"time"

	availability "github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/internal/schedules/domain"
	sharedApplication "github.com/felixgeelhaar/schedly/internal/shared/application"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RecordEntryCommand contains the data needed to record a schedule entry.
type RecordEntryCommand struct {
	UserID uuid.UUID
	Date   time.Time
	Start  availability.TimeOfDay
	End    availability.TimeOfDay
	Kind   domain.Kind
	Title  string
}

// RecordEntryResult contains the result of recording an entry.
type RecordEntryResult struct {
	EntryID uuid.UUID
}

// RecordEntryHandler handles the RecordEntryCommand.
type RecordEntryHandler struct {
	entryRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewRecordEntryHandler creates a new RecordEntryHandler.
func NewRecordEntryHandler(entryRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RecordEntryHandler {
	return &RecordEntryHandler{
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the RecordEntryCommand.
func (h *RecordEntryHandler) Handle(ctx context.Context, cmd RecordEntryCommand) (*RecordEntryResult, error) {
	entry, err := domain.NewScheduleEntry(cmd.UserID, cmd.Date, cmd.Start, cmd.End, cmd.Kind, cmd.Title)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.entryRepo.Save(txCtx, entry); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, entry, cmd.UserID)
	})
	if err != nil {
		return nil, err
	}

	return &RecordEntryResult{EntryID: entry.ID()}, nil
}

// saveEvents writes the entry's pending events to the outbox in the caller's
// transaction.
func saveEvents(ctx context.Context, outboxRepo outbox.Repository, entry *domain.ScheduleEntry, actor uuid.UUID) error {
	events := entry.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.StampEvents(ctx, actor, events)

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	entry.ClearDomainEvents()
	return nil
}
