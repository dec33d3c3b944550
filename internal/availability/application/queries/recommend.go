package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/application/services"
	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/google/uuid"
)

// WindowDTO is a data transfer object for a recommendation window.
type WindowDTO struct {
	Start             string  `json:"start_time"`
	End               string  `json:"end_time"`
	DurationMin       int     `json:"duration_minutes"`
	AvailableCount    int     `json:"available_count"`
	TotalCount        int     `json:"total_count"`
	AvailabilityScore float64 `json:"availability_score"`
}

// RecommendationDTO is a data transfer object for a recommendation result.
type RecommendationDTO struct {
	GroupID      uuid.UUID   `json:"group_id"`
	Date         string      `json:"date"`
	TotalMembers int         `json:"total_members"`
	Windows      []WindowDTO `json:"windows"`
	FromCache    bool        `json:"from_cache"`
	AnalyzedAt   time.Time   `json:"analyzed_at"`
	SearchStart  string      `json:"search_start"`
	SearchEnd    string      `json:"search_end"`
	DurationMin  int         `json:"requested_duration_minutes"`
}

// RecommendQuery asks for meeting windows. A nil work bound uses the
// configured default.
type RecommendQuery struct {
	GroupID   uuid.UUID
	Date      time.Time
	Duration  time.Duration
	WorkStart *domain.TimeOfDay
	WorkEnd   *domain.TimeOfDay
}

// Recommender is the part of the recommendation service queries rely on.
type Recommender interface {
	Recommend(ctx context.Context, req services.RecommendRequest) (*services.Recommendation, error)
	Snapshot(ctx context.Context, groupID uuid.UUID, date time.Time) ([]domain.RecommendationWindow, error)
}

// RecommendHandler handles the RecommendQuery.
type RecommendHandler struct {
	recommender Recommender
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(recommender Recommender) *RecommendHandler {
	return &RecommendHandler{recommender: recommender}
}

// Handle executes the RecommendQuery.
func (h *RecommendHandler) Handle(ctx context.Context, query RecommendQuery) (*RecommendationDTO, error) {
	result, err := h.recommender.Recommend(ctx, services.RecommendRequest{
		GroupID:   query.GroupID,
		Date:      query.Date,
		Duration:  query.Duration,
		WorkStart: query.WorkStart,
		WorkEnd:   query.WorkEnd,
	})
	if err != nil {
		return nil, err
	}

	return &RecommendationDTO{
		GroupID:      result.GroupID,
		Date:         result.Date.Format(domain.DateLayout),
		TotalMembers: result.TotalMembers,
		Windows:      toWindowDTOs(result.Windows),
		FromCache:    result.Metadata.FromCache,
		AnalyzedAt:   result.Metadata.AnalyzedAt,
		SearchStart:  result.Metadata.SearchStart.String(),
		SearchEnd:    result.Metadata.SearchEnd.String(),
		DurationMin:  int(result.Metadata.RequestedDuration / time.Minute),
	}, nil
}

func toWindowDTOs(windows []domain.RecommendationWindow) []WindowDTO {
	dtos := make([]WindowDTO, 0, len(windows))
	for _, w := range windows {
		dtos = append(dtos, WindowDTO{
			Start:             w.Start.String(),
			End:               w.End.String(),
			DurationMin:       int(w.Duration() / time.Minute),
			AvailableCount:    w.AvailableCount,
			TotalCount:        w.TotalCount,
			AvailabilityScore: w.AvailabilityScore,
		})
	}
	return dtos
}
