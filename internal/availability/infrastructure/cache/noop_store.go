package cache

import (
	"context"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
)

// NoopStore disables caching: every read misses and writes are discarded.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]byte, error) { return nil, domain.ErrCacheMiss }

func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopStore) Delete(context.Context, string) error { return nil }

func (NoopStore) DeletePrefix(context.Context, string) (int, error) { return 0, nil }
