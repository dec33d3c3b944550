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

// UpdateEntryCommand changes an entry. Nil fields are left unchanged.
type UpdateEntryCommand struct {
	EntryID uuid.UUID
	UserID  uuid.UUID
	Date    *time.Time
	Start   *availability.TimeOfDay
	End     *availability.TimeOfDay
	Kind    *domain.Kind
	Title   *string
}

// UpdateEntryHandler handles the UpdateEntryCommand.
type UpdateEntryHandler struct {
	entryRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateEntryHandler creates a new UpdateEntryHandler.
func NewUpdateEntryHandler(entryRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateEntryHandler {
	return &UpdateEntryHandler{
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UpdateEntryCommand. Only the owner may update an entry.
func (h *UpdateEntryHandler) Handle(ctx context.Context, cmd UpdateEntryCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		entry, err := h.entryRepo.FindByID(txCtx, cmd.EntryID)
		if err != nil {
			return err
		}
		if !entry.OwnedBy(cmd.UserID) {
			return domain.ErrNotEntryOwner
		}

		if err := entry.Update(domain.Changes{
			Date:  cmd.Date,
			Start: cmd.Start,
			End:   cmd.End,
			Kind:  cmd.Kind,
			Title: cmd.Title,
		}); err != nil {
			return err
		}
		if len(entry.DomainEvents()) == 0 {
			return nil
		}

		if err := h.entryRepo.Save(txCtx, entry); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, entry, cmd.UserID)
	})
}
