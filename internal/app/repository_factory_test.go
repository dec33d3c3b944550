package app

import (
	"context"
	"database/sql"
	"testing"

	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConnection reports a driver without exposing a handle.
type fakeConnection struct {
	driver database.Driver
}

func (f fakeConnection) Ping(context.Context) error { return nil }
func (f fakeConnection) Close() error               { return nil }
func (f fakeConnection) Driver() database.Driver    { return f.driver }

func TestRepositoryFactory_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	factory := NewRepositoryFactory(conn)
	assert.Equal(t, database.DriverSQLite, factory.Driver())
	require.NoError(t, factory.Migrate(ctx))

	entries, err := factory.EntryRepository()
	require.NoError(t, err)
	assert.NotNil(t, entries)

	members, err := factory.MembershipRepository()
	require.NoError(t, err)
	assert.NotNil(t, members)

	snapshots, err := factory.SnapshotRepository()
	require.NoError(t, err)
	assert.NotNil(t, snapshots)

	outboxRepo, err := factory.OutboxRepository()
	require.NoError(t, err)
	assert.NotNil(t, outboxRepo)

	uow, err := factory.UnitOfWork()
	require.NoError(t, err)
	assert.NotNil(t, uow)
}

func TestRepositoryFactory_MissingHandle(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		t.Run(driver.String(), func(t *testing.T) {
			factory := NewRepositoryFactory(fakeConnection{driver: driver})

			_, err := factory.EntryRepository()
			assert.Error(t, err)
			_, err = factory.SnapshotRepository()
			assert.Error(t, err)
			assert.Error(t, factory.Migrate(context.Background()))
		})
	}
}

func TestRepositoryFactory_UnsupportedDriver(t *testing.T) {
	factory := NewRepositoryFactory(fakeConnection{driver: "mysql"})

	_, err := factory.MembershipRepository()
	assert.ErrorContains(t, err, "unsupported driver")
	_, err = factory.OutboxRepository()
	assert.ErrorContains(t, err, "unsupported driver")
}

var _ interface{ DB() *sql.DB } = (*sqlite.Connection)(nil)
