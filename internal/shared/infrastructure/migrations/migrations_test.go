package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestRunSQLiteMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, RunSQLiteMigrations(ctx, db))
	// Re-running is harmless.
	require.NoError(t, RunSQLiteMigrations(ctx, db))

	for _, table := range []string{"group_members", "schedule_entries", "schedule_recommendations", "outbox"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestUpFiles_SameVersionsForBothDrivers(t *testing.T) {
	sqliteFiles, err := upFiles("sqlite")
	require.NoError(t, err)
	postgresFiles, err := upFiles("postgres")
	require.NoError(t, err)

	assert.NotEmpty(t, sqliteFiles)
	assert.Equal(t, sqliteFiles, postgresFiles)
}
