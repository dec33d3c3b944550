package app

import (
	"context"
	"database/sql"
	"fmt"

	availabilityDomain "github.com/felixgeelhaar/schedly/internal/availability/domain"
	availabilityPersistence "github.com/felixgeelhaar/schedly/internal/availability/infrastructure/persistence"
	groupsDomain "github.com/felixgeelhaar/schedly/internal/groups/domain"
	groupsPersistence "github.com/felixgeelhaar/schedly/internal/groups/infrastructure/persistence"
	schedulesDomain "github.com/felixgeelhaar/schedly/internal/schedules/domain"
	schedulesPersistence "github.com/felixgeelhaar/schedly/internal/schedules/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/schedly/internal/shared/application"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/schedly/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntryStore is the schedule entry repository together with the busy
// interval projection the recommendation service reads.
type EntryStore interface {
	schedulesDomain.Repository
	availabilityDomain.BusyIntervalSource
}

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// forDriver builds a T from the pool or the *sql.DB, whichever the
// connection exposes.
func forDriver[T any](f *RepositoryFactory, pg func(*pgxpool.Pool) T, lite func(*sql.DB) T) (T, error) {
	var zero T
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return zero, err
		}
		return pg(pool), nil
	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return zero, err
		}
		return lite(db), nil
	default:
		return zero, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Migrate applies the embedded schema for the configured driver.
func (f *RepositoryFactory) Migrate(ctx context.Context) error {
	migrate, err := forDriver(f,
		func(pool *pgxpool.Pool) func() error {
			return func() error { return migrations.RunPostgresMigrations(ctx, pool) }
		},
		func(db *sql.DB) func() error {
			return func() error { return migrations.RunSQLiteMigrations(ctx, db) }
		},
	)
	if err != nil {
		return err
	}
	return migrate()
}

// EntryRepository creates a schedule entry repository.
func (f *RepositoryFactory) EntryRepository() (EntryStore, error) {
	return forDriver(f,
		func(pool *pgxpool.Pool) EntryStore { return schedulesPersistence.NewPostgresEntryRepository(pool) },
		func(db *sql.DB) EntryStore { return schedulesPersistence.NewSQLiteEntryRepository(db) },
	)
}

// MembershipRepository creates a group membership repository.
func (f *RepositoryFactory) MembershipRepository() (groupsDomain.Repository, error) {
	return forDriver(f,
		func(pool *pgxpool.Pool) groupsDomain.Repository {
			return groupsPersistence.NewPostgresMembershipRepository(pool)
		},
		func(db *sql.DB) groupsDomain.Repository { return groupsPersistence.NewSQLiteMembershipRepository(db) },
	)
}

// SnapshotRepository creates a recommendation snapshot repository.
func (f *RepositoryFactory) SnapshotRepository() (availabilityDomain.SnapshotRepository, error) {
	return forDriver(f,
		func(pool *pgxpool.Pool) availabilityDomain.SnapshotRepository {
			return availabilityPersistence.NewPostgresSnapshotRepository(pool)
		},
		func(db *sql.DB) availabilityDomain.SnapshotRepository {
			return availabilityPersistence.NewSQLiteSnapshotRepository(db)
		},
	)
}

// OutboxRepository creates an outbox repository.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	return forDriver(f,
		func(pool *pgxpool.Pool) outbox.Repository { return outbox.NewPostgresRepository(pool) },
		func(db *sql.DB) outbox.Repository { return outbox.NewSQLiteRepository(db) },
	)
}

// UnitOfWork creates the transaction boundary for the configured driver.
func (f *RepositoryFactory) UnitOfWork() (sharedApplication.UnitOfWork, error) {
	return forDriver(f,
		func(pool *pgxpool.Pool) sharedApplication.UnitOfWork {
			return sharedPersistence.NewPostgresUnitOfWork(pool)
		},
		func(db *sql.DB) sharedApplication.UnitOfWork { return sharedPersistence.NewSQLiteUnitOfWork(db) },
	)
}

func (f *RepositoryFactory) getPostgresPool() (*pgxpool.Pool, error) {
	if c, ok := f.conn.(interface{ Pool() *pgxpool.Pool }); ok {
		return c.Pool(), nil
	}
	return nil, fmt.Errorf("%s connection has no pgx pool", f.driver)
}

func (f *RepositoryFactory) getSQLiteDB() (*sql.DB, error) {
	if c, ok := f.conn.(interface{ DB() *sql.DB }); ok {
		return c.DB(), nil
	}
	return nil, fmt.Errorf("%s connection has no *sql.DB", f.driver)
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}
