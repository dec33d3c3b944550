package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds database configuration.
type Config struct {
	// URL is DATABASE_URL. Empty means SQLite at SQLitePath.
	URL string

	// SQLitePath is used when URL is empty. Defaults to ~/.schedly/schedly.db.
	// ":memory:" opens a private in-memory database.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

// Connection is an open database handle. Repositories reach the driver
// specific handle through the concrete sqlite or postgres type.
type Connection interface {
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}

type opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]opener{}

// RegisterDriver makes a driver available to Open. Driver packages call it
// from init.
func RegisterDriver(driver Driver, open func(ctx context.Context, cfg Config) (Connection, error)) {
	openers[driver] = open
}

// Open connects to the database selected by cfg.URL.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	driver, err := DetectDriver(cfg.URL)
	if err != nil {
		return nil, err
	}

	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %s not registered", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".schedly", "schedly.db")
}

// EnsureDirectory creates the parent directory for a file path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
