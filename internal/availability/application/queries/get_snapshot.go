package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/google/uuid"
)

// SnapshotDTO is the last persisted recommendation set for a group and date.
type SnapshotDTO struct {
	GroupID uuid.UUID   `json:"group_id"`
	Date    string      `json:"date"`
	Windows []WindowDTO `json:"windows"`
}

// GetSnapshotQuery contains the parameters for reading a snapshot.
type GetSnapshotQuery struct {
	GroupID uuid.UUID
	Date    time.Time
}

// GetSnapshotHandler handles the GetSnapshotQuery. It never recomputes.
type GetSnapshotHandler struct {
	recommender Recommender
}

// NewGetSnapshotHandler creates a new GetSnapshotHandler.
func NewGetSnapshotHandler(recommender Recommender) *GetSnapshotHandler {
	return &GetSnapshotHandler{recommender: recommender}
}

// Handle executes the GetSnapshotQuery.
func (h *GetSnapshotHandler) Handle(ctx context.Context, query GetSnapshotQuery) (*SnapshotDTO, error) {
	date := domain.NormalizeDate(query.Date)
	windows, err := h.recommender.Snapshot(ctx, query.GroupID, date)
	if err != nil {
		return nil, err
	}
	return &SnapshotDTO{
		GroupID: query.GroupID,
		Date:    date.Format(domain.DateLayout),
		Windows: toWindowDTOs(windows),
	}, nil
}
