package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	sharedApplication "github.com/felixgeelhaar/schedly/internal/shared/application"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/convert"
	sharedPersistence "github.com/felixgeelhaar/schedly/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSnapshotRepository implements domain.SnapshotRepository using PostgreSQL.
type PostgresSnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSnapshotRepository creates a new PostgreSQL snapshot repository.
func NewPostgresSnapshotRepository(pool *pgxpool.Pool) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{pool: pool}
}

func (r *PostgresSnapshotRepository) Replace(ctx context.Context, groupID uuid.UUID, date time.Time, windows []domain.RecommendationWindow) error {
	return sharedApplication.WithUnitOfWork(ctx, sharedPersistence.NewPostgresUnitOfWork(r.pool), func(txCtx context.Context) error {
		return replacePostgres(txCtx, sharedPersistence.Executor(txCtx, r.pool), groupID, date, windows)
	})
}

func replacePostgres(
	ctx context.Context,
	exec sharedPersistence.DBExecutor,
	groupID uuid.UUID,
	date time.Time,
	windows []domain.RecommendationWindow,
) error {
	day := domain.NormalizeDate(date)

	if _, err := exec.Exec(ctx,
		`DELETE FROM schedule_recommendations WHERE group_id = $1 AND target_date = $2`,
		groupID, day,
	); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	const insert = `
		INSERT INTO schedule_recommendations (
			id, group_id, target_date, rank, start_minute, end_minute,
			available_count, total_count, availability_score, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	createdAt := time.Now().UTC()
	for i, w := range windows {
		rank, err := convert.IntToInt32(i + 1)
		if err != nil {
			return err
		}
		start, err := convert.MinutesOfDay(w.Start.Duration())
		if err != nil {
			return err
		}
		end, err := convert.MinutesOfDay(w.End.Duration())
		if err != nil {
			return err
		}
		if _, err := exec.Exec(ctx, insert,
			uuid.New(), groupID, day, rank, start, end,
			w.AvailableCount, w.TotalCount, w.AvailabilityScore, createdAt,
		); err != nil {
			return fmt.Errorf("insert snapshot window %d: %w", rank, err)
		}
	}
	return nil
}

func (r *PostgresSnapshotRepository) FindByGroupAndDate(ctx context.Context, groupID uuid.UUID, date time.Time) ([]domain.RecommendationWindow, error) {
	const query = `
		SELECT start_minute, end_minute, available_count, total_count, availability_score
		FROM schedule_recommendations
		WHERE group_id = $1 AND target_date = $2
		ORDER BY rank
	`
	day := domain.NormalizeDate(date)
	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, groupID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := []domain.RecommendationWindow{}
	for rows.Next() {
		var start, end int32
		w := domain.RecommendationWindow{GroupID: groupID, TargetDate: day}
		if err := rows.Scan(&start, &end, &w.AvailableCount, &w.TotalCount, &w.AvailabilityScore); err != nil {
			return nil, err
		}
		w.Start = domain.TimeOfDay(convert.MinutesToDuration(int64(start)))
		w.End = domain.TimeOfDay(convert.MinutesToDuration(int64(end)))
		windows = append(windows, w)
	}
	return windows, rows.Err()
}
