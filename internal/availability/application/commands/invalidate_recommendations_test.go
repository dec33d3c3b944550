package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(ctx context.Context, groupID uuid.UUID, date time.Time) error {
	args := m.Called(ctx, groupID, date)
	return args.Error(0)
}

func TestInvalidateRecommendationsHandler_DeduplicatesDates(t *testing.T) {
	invalidator := new(mockInvalidator)
	handler := NewInvalidateRecommendationsHandler(invalidator)
	ctx := context.Background()
	groupID := uuid.New()
	monday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	invalidator.On("Invalidate", ctx, groupID, monday).Return(nil).Once()
	invalidator.On("Invalidate", ctx, groupID, tuesday).Return(nil).Once()

	err := handler.Handle(ctx, InvalidateRecommendationsCommand{
		GroupID: groupID,
		Dates:   []time.Time{monday, monday.Add(9 * time.Hour), tuesday},
	})

	assert.NoError(t, err)
	invalidator.AssertExpectations(t)
}

func TestInvalidateRecommendationsHandler_AttemptsAllDates(t *testing.T) {
	invalidator := new(mockInvalidator)
	handler := NewInvalidateRecommendationsHandler(invalidator)
	ctx := context.Background()
	groupID := uuid.New()
	first := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 1)

	invalidator.On("Invalidate", ctx, groupID, first).Return(domain.ErrCacheUnavailable)
	invalidator.On("Invalidate", ctx, groupID, second).Return(nil)

	err := handler.Handle(ctx, InvalidateRecommendationsCommand{GroupID: groupID, Dates: []time.Time{first, second}})

	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	invalidator.AssertNumberOfCalls(t, "Invalidate", 2)
}

func TestInvalidateRecommendationsHandler_Validation(t *testing.T) {
	handler := NewInvalidateRecommendationsHandler(new(mockInvalidator))

	err := handler.Handle(context.Background(), InvalidateRecommendationsCommand{Dates: []time.Time{time.Now()}})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	err = handler.Handle(context.Background(), InvalidateRecommendationsCommand{GroupID: uuid.New()})
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))
}
