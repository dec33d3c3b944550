package queries

import (
	"context"

	"github.com/felixgeelhaar/schedly/internal/groups/domain"
	"github.com/google/uuid"
)

// ListGroupMembersQuery lists the members of a group.
type ListGroupMembersQuery struct {
	GroupID uuid.UUID
}

// ListGroupMembersHandler handles the ListGroupMembersQuery.
type ListGroupMembersHandler struct {
	repo domain.Repository
}

// NewListGroupMembersHandler creates a new ListGroupMembersHandler.
func NewListGroupMembersHandler(repo domain.Repository) *ListGroupMembersHandler {
	return &ListGroupMembersHandler{repo: repo}
}

// Handle executes the ListGroupMembersQuery.
func (h *ListGroupMembersHandler) Handle(ctx context.Context, query ListGroupMembersQuery) ([]uuid.UUID, error) {
	return h.repo.ListGroupMembers(ctx, query.GroupID)
}

// ListGroupsForUserQuery lists the groups a user belongs to.
type ListGroupsForUserQuery struct {
	UserID uuid.UUID
}

// ListGroupsForUserHandler handles the ListGroupsForUserQuery.
type ListGroupsForUserHandler struct {
	repo domain.Repository
}

// NewListGroupsForUserHandler creates a new ListGroupsForUserHandler.
func NewListGroupsForUserHandler(repo domain.Repository) *ListGroupsForUserHandler {
	return &ListGroupsForUserHandler{repo: repo}
}

// Handle executes the ListGroupsForUserQuery.
func (h *ListGroupsForUserHandler) Handle(ctx context.Context, query ListGroupsForUserQuery) ([]uuid.UUID, error) {
	return h.repo.ListGroupsForUser(ctx, query.UserID)
}
