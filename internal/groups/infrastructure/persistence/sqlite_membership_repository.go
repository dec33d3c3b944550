package persistence

import (
	"context"
	"database/sql"

	"github.com/felixgeelhaar/schedly/internal/groups/domain"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/convert"
	sharedPersistence "github.com/felixgeelhaar/schedly/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteMembershipRepository implements domain.Repository using SQLite.
type SQLiteMembershipRepository struct {
	db *sql.DB
}

// NewSQLiteMembershipRepository creates a new SQLite membership repository.
func NewSQLiteMembershipRepository(db *sql.DB) *SQLiteMembershipRepository {
	return &SQLiteMembershipRepository{db: db}
}

func (r *SQLiteMembershipRepository) Add(ctx context.Context, m domain.Membership) error {
	result, err := sharedPersistence.SQLiteExecutorFrom(ctx, r.db).ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		m.GroupID.String(), m.UserID.String(), convert.FormatSQLiteTime(m.JoinedAt),
	)
	if err != nil {
		return err
	}
	return affectedOr(result, domain.ErrMemberExists)
}

func (r *SQLiteMembershipRepository) Remove(ctx context.Context, groupID, userID uuid.UUID) error {
	result, err := sharedPersistence.SQLiteExecutorFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID.String(), userID.String(),
	)
	if err != nil {
		return err
	}
	return affectedOr(result, domain.ErrMemberNotFound)
}

func (r *SQLiteMembershipRepository) ListGroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	return r.listIDs(ctx,
		`SELECT user_id FROM group_members WHERE group_id = ? ORDER BY joined_at, user_id`,
		groupID.String())
}

func (r *SQLiteMembershipRepository) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.listIDs(ctx,
		`SELECT group_id FROM group_members WHERE user_id = ? ORDER BY group_id`,
		userID.String())
}

func (r *SQLiteMembershipRepository) listIDs(ctx context.Context, query string, arg string) ([]uuid.UUID, error) {
	rows, err := sharedPersistence.SQLiteExecutorFrom(ctx, r.db).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// affectedOr returns sentinel when the statement touched no rows.
func affectedOr(result sql.Result, sentinel error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel
	}
	return nil
}
