package persistence

import (
	"context"
	"database/sql"
)

// SQLiteUnitOfWork implements application.UnitOfWork for SQLite.
type SQLiteUnitOfWork struct {
	txUnit[*sql.Tx]
}

// NewSQLiteUnitOfWork creates a new SQLiteUnitOfWork.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{txUnit[*sql.Tx]{
		key:      sqliteTxKey{},
		begin:    func(ctx context.Context) (*sql.Tx, error) { return db.BeginTx(ctx, nil) },
		commit:   func(_ context.Context, tx *sql.Tx) error { return tx.Commit() },
		rollback: func(_ context.Context, tx *sql.Tx) error { return tx.Rollback() },
	}}
}

// SQLiteExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLiteExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteExecutorFrom returns the transaction in ctx when present, otherwise db.
func SQLiteExecutorFrom(ctx context.Context, db *sql.DB) SQLiteExecutor {
	if state, ok := txFrom[*sql.Tx](ctx, sqliteTxKey{}); ok {
		return state.tx
	}
	return db
}
