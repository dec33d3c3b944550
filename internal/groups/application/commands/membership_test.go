package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/schedly/internal/groups/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMembershipRepo struct {
	mock.Mock
}

func (m *mockMembershipRepo) Add(ctx context.Context, membership domain.Membership) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *mockMembershipRepo) Remove(ctx context.Context, groupID, userID uuid.UUID) error {
	return m.Called(ctx, groupID, userID).Error(0)
}

func (m *mockMembershipRepo) ListGroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockMembershipRepo) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) InvalidateGroup(ctx context.Context, groupID uuid.UUID) error {
	return m.Called(ctx, groupID).Error(0)
}

func TestAddMemberHandler_Handle(t *testing.T) {
	t.Run("adds membership", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		handler := NewAddMemberHandler(repo, nil, nil)
		groupID, userID := uuid.New(), uuid.New()

		repo.On("Add", mock.Anything, mock.MatchedBy(func(m domain.Membership) bool {
			return m.GroupID == groupID && m.UserID == userID
		})).Return(nil)

		assert.NoError(t, handler.Handle(context.Background(), AddMemberCommand{GroupID: groupID, UserID: userID}))
		repo.AssertExpectations(t)
	})

	t.Run("propagates duplicate", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		handler := NewAddMemberHandler(repo, nil, nil)
		repo.On("Add", mock.Anything, mock.Anything).Return(domain.ErrMemberExists)

		err := handler.Handle(context.Background(), AddMemberCommand{GroupID: uuid.New(), UserID: uuid.New()})

		assert.ErrorIs(t, err, domain.ErrMemberExists)
	})

	t.Run("validates ids", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		handler := NewAddMemberHandler(repo, nil, nil)

		assert.Error(t, handler.Handle(context.Background(), AddMemberCommand{UserID: uuid.New()}))
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})
}

func TestRemoveMemberHandler_Handle(t *testing.T) {
	repo := new(mockMembershipRepo)
	handler := NewRemoveMemberHandler(repo, nil, nil)
	groupID, userID := uuid.New(), uuid.New()

	repo.On("Remove", mock.Anything, groupID, userID).Return(domain.ErrMemberNotFound).Once()
	repo.On("Remove", mock.Anything, groupID, userID).Return(nil).Once()

	assert.ErrorIs(t, handler.Handle(context.Background(), RemoveMemberCommand{GroupID: groupID, UserID: userID}), domain.ErrMemberNotFound)
	assert.NoError(t, handler.Handle(context.Background(), RemoveMemberCommand{GroupID: groupID, UserID: userID}))
}

func TestMembershipChange_InvalidatesGroupCache(t *testing.T) {
	t.Run("add invalidates the group", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		invalidator := new(mockInvalidator)
		handler := NewAddMemberHandler(repo, invalidator, nil)
		groupID := uuid.New()

		repo.On("Add", mock.Anything, mock.Anything).Return(nil)
		invalidator.On("InvalidateGroup", mock.Anything, groupID).Return(nil).Once()

		assert.NoError(t, handler.Handle(context.Background(), AddMemberCommand{GroupID: groupID, UserID: uuid.New()}))
		invalidator.AssertExpectations(t)
	})

	t.Run("remove invalidates the group", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		invalidator := new(mockInvalidator)
		handler := NewRemoveMemberHandler(repo, invalidator, nil)
		groupID, userID := uuid.New(), uuid.New()

		repo.On("Remove", mock.Anything, groupID, userID).Return(nil)
		invalidator.On("InvalidateGroup", mock.Anything, groupID).Return(nil).Once()

		assert.NoError(t, handler.Handle(context.Background(), RemoveMemberCommand{GroupID: groupID, UserID: userID}))
		invalidator.AssertExpectations(t)
	})

	t.Run("failed change leaves the cache alone", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		invalidator := new(mockInvalidator)
		handler := NewRemoveMemberHandler(repo, invalidator, nil)

		repo.On("Remove", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrMemberNotFound)

		err := handler.Handle(context.Background(), RemoveMemberCommand{GroupID: uuid.New(), UserID: uuid.New()})

		assert.ErrorIs(t, err, domain.ErrMemberNotFound)
		invalidator.AssertNotCalled(t, "InvalidateGroup", mock.Anything, mock.Anything)
	})

	t.Run("invalidation failure does not fail the change", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		invalidator := new(mockInvalidator)
		handler := NewAddMemberHandler(repo, invalidator, nil)

		repo.On("Add", mock.Anything, mock.Anything).Return(nil)
		invalidator.On("InvalidateGroup", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		assert.NoError(t, handler.Handle(context.Background(), AddMemberCommand{GroupID: uuid.New(), UserID: uuid.New()}))
		invalidator.AssertExpectations(t)
	})
}
