package commands

import (
	"context"

	"github.com/felixgeelhaar/schedly/internal/schedules/domain"
	sharedApplication "github.com/felixgeelhaar/schedly/internal/shared/application"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RemoveEntryCommand deletes an entry.
type RemoveEntryCommand struct {
	EntryID uuid.UUID
	UserID  uuid.UUID
}

// RemoveEntryHandler handles the RemoveEntryCommand.
type RemoveEntryHandler struct {
	entryRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewRemoveEntryHandler creates a new RemoveEntryHandler.
func NewRemoveEntryHandler(entryRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RemoveEntryHandler {
	return &RemoveEntryHandler{
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the RemoveEntryCommand. Only the owner may remove an entry.
func (h *RemoveEntryHandler) Handle(ctx context.Context, cmd RemoveEntryCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		entry, err := h.entryRepo.FindByID(txCtx, cmd.EntryID)
		if err != nil {
			return err
		}
		if !entry.OwnedBy(cmd.UserID) {
			return domain.ErrNotEntryOwner
		}

		entry.MarkRemoved()
		if err := h.entryRepo.Delete(txCtx, entry.ID()); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, entry, cmd.UserID)
	})
}
