package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	availability "github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/internal/schedules/domain"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/database"
	sharedPersistence "github.com/felixgeelhaar/schedly/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

const entryColumns = `id, user_id, entry_date, start_minute, end_minute, kind, title, created_at, updated_at`

// SQLiteEntryRepository implements domain.Repository and
// availability.BusyIntervalSource using SQLite.
type SQLiteEntryRepository struct {
	db *sql.DB
}

// NewSQLiteEntryRepository creates a new SQLite schedule entry repository.
func NewSQLiteEntryRepository(db *sql.DB) *SQLiteEntryRepository {
	return &SQLiteEntryRepository{db: db}
}

// Save inserts or updates an entry.
func (r *SQLiteEntryRepository) Save(ctx context.Context, entry *domain.ScheduleEntry) error {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			entry_date = excluded.entry_date,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute,
			kind = excluded.kind,
			title = excluded.title,
			updated_at = excluded.updated_at
	`
	_, err = sharedPersistence.SQLiteExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		entry.ID().String(),
		entry.UserID().String(),
		entry.Date().Format(availability.DateLayout),
		start,
		end,
		string(entry.Kind()),
		entry.Title(),
		convert.FormatSQLiteTime(entry.CreatedAt()),
		convert.FormatSQLiteTime(entry.UpdatedAt()),
	)
	return err
}

func (r *SQLiteEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleEntry, error) {
	row := sharedPersistence.SQLiteExecutorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM schedule_entries WHERE id = ?`, id.String())

	entry, err := scanSQLiteEntry(row)
	if database.IsNoRows(err) {
		return nil, domain.ErrEntryNotFound
	}
	return entry, err
}

func (r *SQLiteEntryRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.ScheduleEntry, error) {
	rows, err := sharedPersistence.SQLiteExecutorFrom(ctx, r.db).QueryContext(ctx,
		`SELECT `+entryColumns+` FROM schedule_entries
		 WHERE user_id = ? AND entry_date BETWEEN ? AND ?
		 ORDER BY entry_date, start_minute, end_minute`,
		userID.String(),
		availability.NormalizeDate(from).Format(availability.DateLayout),
		availability.NormalizeDate(to).Format(availability.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ScheduleEntry
	for rows.Next() {
		entry, err := scanSQLiteEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *SQLiteEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := sharedPersistence.SQLiteExecutorFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM schedule_entries WHERE id = ?`, id.String())
	return err
}

// ListBusyIntervals returns the busy entries of the given users on date.
func (r *SQLiteEntryRepository) ListBusyIntervals(ctx context.Context, userIDs []uuid.UUID, date time.Time) ([]availability.BusyInterval, error) {
	if len(userIDs) == 0 {
		return []availability.BusyInterval{}, nil
	}

	day := availability.NormalizeDate(date)
	args := make([]any, 0, len(userIDs)+2)
	args = append(args, day.Format(availability.DateLayout), string(domain.KindBusy))
	for _, id := range userIDs {
		args = append(args, id.String())
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")

	query := fmt.Sprintf(`
		SELECT user_id, start_minute, end_minute
		FROM schedule_entries
		WHERE entry_date = ? AND kind = ? AND user_id IN (%s)
		ORDER BY user_id, start_minute
	`, placeholders)

	rows, err := sharedPersistence.SQLiteExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intervals := []availability.BusyInterval{}
	for rows.Next() {
		var (
			userID     string
			start, end int64
		)
		if err := rows.Scan(&userID, &start, &end); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(userID)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, availability.BusyInterval{
			UserID: id,
			Date:   day,
			Start:  availability.TimeOfDay(convert.MinutesToDuration(start)),
			End:    availability.TimeOfDay(convert.MinutesToDuration(end)),
		})
	}
	return intervals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteEntry(row rowScanner) (*domain.ScheduleEntry, error) {
	var (
		id, userID, date, kind, title string
		created, updated              string
		start, end                    int64
	)
	if err := row.Scan(&id, &userID, &date, &start, &end, &kind, &title, &created, &updated); err != nil {
		return nil, err
	}

	entryID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	day, err := availability.ParseDate(date)
	if err != nil {
		return nil, err
	}
	createdAt, err := convert.ParseSQLiteTime(created)
	if err != nil {
		return nil, err
	}
	updatedAt, err := convert.ParseSQLiteTime(updated)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateScheduleEntry(
		entryID, owner, day,
		availability.TimeOfDay(convert.MinutesToDuration(start)),
		availability.TimeOfDay(convert.MinutesToDuration(end)),
		domain.Kind(kind), title, createdAt, updatedAt,
	), nil
}
