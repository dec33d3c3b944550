package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/schedly/internal/groups/domain"
	"github.com/google/uuid"
)

// GroupCacheInvalidator drops derived data cached for a group.
type GroupCacheInvalidator interface {
	InvalidateGroup(ctx context.Context, groupID uuid.UUID) error
}

// invalidate is best effort: the membership change is already committed, and
// a stale entry still expires with its TTL.
func invalidate(ctx context.Context, invalidator GroupCacheInvalidator, logger *slog.Logger, groupID uuid.UUID) {
	if invalidator == nil {
		return
	}
	if err := invalidator.InvalidateGroup(ctx, groupID); err != nil {
		logger.WarnContext(ctx, "group cache invalidation failed", "group_id", groupID, "error", err)
	}
}

// AddMemberCommand adds a user to a group.
type AddMemberCommand struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// AddMemberHandler handles the AddMemberCommand.
type AddMemberHandler struct {
	repo        domain.Repository
	invalidator GroupCacheInvalidator
	logger      *slog.Logger
}

// NewAddMemberHandler creates a new AddMemberHandler. invalidator may be nil.
func NewAddMemberHandler(repo domain.Repository, invalidator GroupCacheInvalidator, logger *slog.Logger) *AddMemberHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddMemberHandler{repo: repo, invalidator: invalidator, logger: logger}
}

// Handle executes the AddMemberCommand.
func (h *AddMemberHandler) Handle(ctx context.Context, cmd AddMemberCommand) error {
	m, err := domain.NewMembership(cmd.GroupID, cmd.UserID)
	if err != nil {
		return err
	}
	if err := h.repo.Add(ctx, m); err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "group member added", "group_id", cmd.GroupID, "user_id", cmd.UserID)
	invalidate(ctx, h.invalidator, h.logger, cmd.GroupID)
	return nil
}

// RemoveMemberCommand removes a user from a group.
type RemoveMemberCommand struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// RemoveMemberHandler handles the RemoveMemberCommand.
type RemoveMemberHandler struct {
	repo        domain.Repository
	invalidator GroupCacheInvalidator
	logger      *slog.Logger
}

// NewRemoveMemberHandler creates a new RemoveMemberHandler. invalidator may be nil.
func NewRemoveMemberHandler(repo domain.Repository, invalidator GroupCacheInvalidator, logger *slog.Logger) *RemoveMemberHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoveMemberHandler{repo: repo, invalidator: invalidator, logger: logger}
}

// Handle executes the RemoveMemberCommand.
func (h *RemoveMemberHandler) Handle(ctx context.Context, cmd RemoveMemberCommand) error {
	if err := h.repo.Remove(ctx, cmd.GroupID, cmd.UserID); err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "group member removed", "group_id", cmd.GroupID, "user_id", cmd.UserID)
	invalidate(ctx, h.invalidator, h.logger, cmd.GroupID)
	return nil
}
