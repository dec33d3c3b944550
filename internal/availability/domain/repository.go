package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by a CacheStore when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// MemberDirectory lists the members of a group.
type MemberDirectory interface {
	ListGroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}

// BusyIntervalSource supplies busy intervals for a set of users on one date.
type BusyIntervalSource interface {
	ListBusyIntervals(ctx context.Context, userIDs []uuid.UUID, date time.Time) ([]BusyInterval, error)
}

// SnapshotRepository persists the recommendation set of a (group, date) pair.
type SnapshotRepository interface {
	// Replace deletes the previous snapshot and inserts the given windows
	// atomically.
	Replace(ctx context.Context, groupID uuid.UUID, date time.Time, windows []RecommendationWindow) error

	// FindByGroupAndDate returns the persisted windows ordered by descending
	// score, then start time.
	FindByGroupAndDate(ctx context.Context, groupID uuid.UUID, date time.Time) ([]RecommendationWindow, error)
}

// CacheStore is a byte-oriented key-value store with per-entry expiry.
type CacheStore interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
