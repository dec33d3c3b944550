package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/application/services"
	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecommender struct {
	mock.Mock
}

func (m *mockRecommender) Recommend(ctx context.Context, req services.RecommendRequest) (*services.Recommendation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Recommendation), args.Error(1)
}

func (m *mockRecommender) Snapshot(ctx context.Context, groupID uuid.UUID, date time.Time) ([]domain.RecommendationWindow, error) {
	args := m.Called(ctx, groupID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecommendationWindow), args.Error(1)
}

var day = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

func TestRecommendHandler_Handle(t *testing.T) {
	recommender := new(mockRecommender)
	handler := NewRecommendHandler(recommender)
	ctx := context.Background()
	groupID := uuid.New()

	req := services.RecommendRequest{GroupID: groupID, Date: day, Duration: time.Hour}
	recommender.On("Recommend", ctx, req).Return(&services.Recommendation{
		GroupID:      groupID,
		Date:         day,
		TotalMembers: 4,
		Windows: []domain.RecommendationWindow{{
			Start:             domain.NewTimeOfDay(13, 0),
			End:               domain.NewTimeOfDay(14, 0),
			AvailableCount:    3,
			TotalCount:        4,
			AvailabilityScore: 0.75,
		}},
		Metadata: domain.AnalysisMetadata{
			RequestedDuration: time.Hour,
			SearchStart:       domain.NewTimeOfDay(9, 0),
			SearchEnd:         domain.NewTimeOfDay(18, 0),
			FromCache:         true,
		},
	}, nil)

	dto, err := handler.Handle(ctx, RecommendQuery{GroupID: groupID, Date: day, Duration: time.Hour})

	require.NoError(t, err)
	assert.Equal(t, "2026-05-04", dto.Date)
	assert.Equal(t, 4, dto.TotalMembers)
	assert.True(t, dto.FromCache)
	assert.Equal(t, 60, dto.DurationMin)
	assert.Equal(t, "09:00", dto.SearchStart)
	require.Len(t, dto.Windows, 1)
	assert.Equal(t, WindowDTO{
		Start:             "13:00",
		End:               "14:00",
		DurationMin:       60,
		AvailableCount:    3,
		TotalCount:        4,
		AvailabilityScore: 0.75,
	}, dto.Windows[0])
	recommender.AssertExpectations(t)
}

func TestRecommendHandler_PropagatesErrors(t *testing.T) {
	recommender := new(mockRecommender)
	handler := NewRecommendHandler(recommender)
	recommender.On("Recommend", mock.Anything, mock.Anything).Return(nil, domain.ErrUpstreamLookup)

	dto, err := handler.Handle(context.Background(), RecommendQuery{GroupID: uuid.New(), Date: day, Duration: time.Hour})

	assert.Nil(t, dto)
	assert.ErrorIs(t, err, domain.ErrUpstreamLookup)
}

func TestGetSnapshotHandler_Handle(t *testing.T) {
	recommender := new(mockRecommender)
	handler := NewGetSnapshotHandler(recommender)
	ctx := context.Background()
	groupID := uuid.New()

	recommender.On("Snapshot", ctx, groupID, day).Return([]domain.RecommendationWindow{}, nil)

	dto, err := handler.Handle(ctx, GetSnapshotQuery{GroupID: groupID, Date: day.Add(10 * time.Hour)})

	require.NoError(t, err)
	assert.Equal(t, "2026-05-04", dto.Date)
	assert.NotNil(t, dto.Windows)
	assert.Empty(t, dto.Windows)
}

func TestGetSnapshotHandler_Error(t *testing.T) {
	recommender := new(mockRecommender)
	handler := NewGetSnapshotHandler(recommender)
	recommender.On("Snapshot", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := handler.Handle(context.Background(), GetSnapshotQuery{GroupID: uuid.New(), Date: day})

	assert.Error(t, err)
}
