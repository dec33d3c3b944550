package persistence

import (
	"context"
	"time"

	availability "github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/internal/schedules/domain"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/database"
	sharedPersistence "github.com/felixgeelhaar/schedly/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgresEntryRepository implements domain.Repository and
// availability.BusyIntervalSource using PostgreSQL.
type PostgresEntryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEntryRepository creates a new PostgreSQL schedule entry repository.
func NewPostgresEntryRepository(pool *pgxpool.Pool) *PostgresEntryRepository {
	return &PostgresEntryRepository{pool: pool}
}

func (r *PostgresEntryRepository) Save(ctx context.Context, entry *domain.ScheduleEntry) error {
	start, err := convert.MinutesOfDay(entry.Start().Duration())
	if err != nil {
		return err
	}
	end, err := convert.MinutesOfDay(entry.End().Duration())
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO schedule_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			entry_date = EXCLUDED.entry_date,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			kind = EXCLUDED.kind,
			title = EXCLUDED.title,
			updated_at = EXCLUDED.updated_at
	`
	_, err = sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		entry.ID(), entry.UserID(), entry.Date(), start, end,
		string(entry.Kind()), entry.Title(), entry.CreatedAt(), entry.UpdatedAt(),
	)
	return err
}

func (r *PostgresEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleEntry, error) {
	row := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+entryColumns+` FROM schedule_entries WHERE id = $1`, id)

	entry, err := scanPostgresEntry(row)
	if database.IsNoRows(err) {
		return nil, domain.ErrEntryNotFound
	}
	return entry, err
}

func (r *PostgresEntryRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.ScheduleEntry, error) {
	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx,
		`SELECT `+entryColumns+` FROM schedule_entries
		 WHERE user_id = $1 AND entry_date BETWEEN $2 AND $3
		 ORDER BY entry_date, start_minute, end_minute`,
		userID, availability.NormalizeDate(from), availability.NormalizeDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ScheduleEntry
	for rows.Next() {
		entry, err := scanPostgresEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *PostgresEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx,
		`DELETE FROM schedule_entries WHERE id = $1`, id)
	return err
}

// ListBusyIntervals returns the busy entries of the given users on date.
func (r *PostgresEntryRepository) ListBusyIntervals(ctx context.Context, userIDs []uuid.UUID, date time.Time) ([]availability.BusyInterval, error) {
	if len(userIDs) == 0 {
		return []availability.BusyInterval{}, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}
	day := availability.NormalizeDate(date)

	const query = `
		SELECT user_id, start_minute, end_minute
		FROM schedule_entries
		WHERE entry_date = $1 AND kind = $2 AND user_id = ANY($3::uuid[])
		ORDER BY user_id, start_minute
	`
	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, day, string(domain.KindBusy), pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intervals := []availability.BusyInterval{}
	for rows.Next() {
		var (
			userID     uuid.UUID
			start, end int32
		)
		if err := rows.Scan(&userID, &start, &end); err != nil {
			return nil, err
		}
		intervals = append(intervals, availability.BusyInterval{
			UserID: userID,
			Date:   day,
			Start:  availability.TimeOfDay(convert.MinutesToDuration(int64(start))),
			End:    availability.TimeOfDay(convert.MinutesToDuration(int64(end))),
		})
	}
	return intervals, rows.Err()
}

func scanPostgresEntry(row pgx.Row) (*domain.ScheduleEntry, error) {
	var (
		id, userID           uuid.UUID
		date                 time.Time
		start, end           int32
		kind, title          string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &date, &start, &end, &kind, &title, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateScheduleEntry(
		id, userID, date,
		availability.TimeOfDay(convert.MinutesToDuration(int64(start))),
		availability.TimeOfDay(convert.MinutesToDuration(int64(end))),
		domain.Kind(kind), title, createdAt, updatedAt,
	), nil
}
