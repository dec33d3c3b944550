package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/schedly/internal/shared/application"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/convert"
	sharedPersistence "github.com/felixgeelhaar/schedly/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteSnapshotRepository implements domain.SnapshotRepository using SQLite.
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

// NewSQLiteSnapshotRepository creates a new SQLite snapshot repository.
func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

// Replace deletes the previous snapshot and inserts the windows in rank order.
func (r *SQLiteSnapshotRepository) Replace(ctx context.Context, groupID uuid.UUID, date time.Time, windows []domain.RecommendationWindow) error {
	return sharedApplication.WithUnitOfWork(ctx, sharedPersistence.NewSQLiteUnitOfWork(r.db), func(txCtx context.Context) error {
		return r.replace(txCtx, sharedPersistence.SQLiteExecutorFrom(txCtx, r.db), groupID, date, windows)
	})
}

func (r *SQLiteSnapshotRepository) replace(
	ctx context.Context,
	exec sharedPersistence.SQLiteExecutor,
	groupID uuid.UUID,
	date time.Time,
	windows []domain.RecommendationWindow,
) error {
	day := domain.NormalizeDate(date).Format(domain.DateLayout)

	if _, err := exec.ExecContext(ctx,
		`DELETE FROM schedule_recommendations WHERE group_id = ? AND target_date = ?`,
		groupID.String(), day,
	); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	const insert = `
		INSERT INTO schedule_recommendations (
			id, group_id, target_date, rank, start_minute, end_minute,
			available_count, total_count, availability_score, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := convert.FormatSQLiteTime(time.Now())
	for i, w := range windows {
		start, err := convert.MinutesOfDay(w.Start.Duration())
		if err != nil {
			return err
		}
		end, err := convert.MinutesOfDay(w.End.Duration())
		if err != nil {
			return err
		}
		if _, err := exec.ExecContext(ctx, insert,
			uuid.NewString(), groupID.String(), day, i+1, start, end,
			w.AvailableCount, w.TotalCount, w.AvailabilityScore, createdAt,
		); err != nil {
			return fmt.Errorf("insert snapshot window %d: %w", i+1, err)
		}
	}
	return nil
}

// FindByGroupAndDate returns the snapshot in rank order, or an empty slice.
func (r *SQLiteSnapshotRepository) FindByGroupAndDate(ctx context.Context, groupID uuid.UUID, date time.Time) ([]domain.RecommendationWindow, error) {
	const query = `
		SELECT start_minute, end_minute, available_count, total_count, availability_score
		FROM schedule_recommendations
		WHERE group_id = ? AND target_date = ?
		ORDER BY rank
	`
	day := domain.NormalizeDate(date)
	rows, err := sharedPersistence.SQLiteExecutorFrom(ctx, r.db).QueryContext(ctx, query,
		groupID.String(), day.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := []domain.RecommendationWindow{}
	for rows.Next() {
		var start, end int64
		w := domain.RecommendationWindow{GroupID: groupID, TargetDate: day}
		if err := rows.Scan(&start, &end, &w.AvailableCount, &w.TotalCount, &w.AvailabilityScore); err != nil {
			return nil, err
		}
		w.Start = domain.TimeOfDay(convert.MinutesToDuration(start))
		w.End = domain.TimeOfDay(convert.MinutesToDuration(end))
		windows = append(windows, w)
	}
	return windows, rows.Err()
}
