package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMemberExists   = errors.New("user is already a member of the group")
	ErrMemberNotFound = errors.New("user is not a member of the group")
)

// Membership links a user to a group.
type Membership struct {
	GroupID  uuid.UUID
	UserID   uuid.UUID
	JoinedAt time.Time
}

// NewMembership creates a membership joined now.
func NewMembership(groupID, userID uuid.UUID) (Membership, error) {
	if groupID == uuid.Nil {
		return Membership{}, errors.New("group id is required")
	}
	if userID == uuid.Nil {
		return Membership{}, errors.New("user id is required")
	}
	return Membership{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}, nil
}

// Repository persists group memberships.
type Repository interface {
	// Add returns ErrMemberExists for a duplicate membership.
	Add(ctx context.Context, m Membership) error
	// Remove returns ErrMemberNotFound when there is nothing to remove.
	Remove(ctx context.Context, groupID, userID uuid.UUID) error
	// ListGroupMembers returns member ids in join order.
	ListGroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
