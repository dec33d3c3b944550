package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/pkg/observability"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// DefaultCacheTTL bounds how long a cached recommendation set stays fresh.
const DefaultCacheTTL = 2 * time.Hour

// CacheStatus is the outcome of a cache lookup.
type CacheStatus int

const (
	CacheMiss CacheStatus = iota
	CacheHit
	CacheUnavailable
)

func (s CacheStatus) String() string {
	switch s {
	case CacheHit:
		return "hit"
	case CacheUnavailable:
		return "unavailable"
	default:
		return "miss"
	}
}

// CachedRecommendations is the value stored under a recommendation cache key.
// The request parameters are kept alongside the windows because the key only
// names the group and date.
type CachedRecommendations struct {
	Duration     time.Duration                 `json:"duration"`
	WorkStart    domain.TimeOfDay              `json:"work_start"`
	WorkEnd      domain.TimeOfDay              `json:"work_end"`
	TotalMembers int                           `json:"total_members"`
	ComputedAt   time.Time                     `json:"computed_at"`
	Windows      []domain.RecommendationWindow `json:"windows"`
}

// Matches reports whether the entry was computed for the same parameters.
func (c CachedRecommendations) Matches(duration time.Duration, workStart, workEnd domain.TimeOfDay) bool {
	return c.Duration == duration && c.WorkStart == workStart && c.WorkEnd == workEnd
}

// CacheLookup carries the result of RecommendationCache.Get. Entry is set
// only when Status is CacheHit.
type CacheLookup struct {
	Status CacheStatus
	Entry  *CachedRecommendations
}

// RecommendationCacheConfig configures the recommendation cache.
type RecommendationCacheConfig struct {
	// TTL applies uniformly to every entry.
	TTL time.Duration

	// OperationTimeout bounds each call to the backing store.
	OperationTimeout time.Duration

	// BreakerEnabled guards the store with a circuit breaker.
	BreakerEnabled bool

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
}

// DefaultRecommendationCacheConfig returns the production defaults.
func DefaultRecommendationCacheConfig() RecommendationCacheConfig {
	return RecommendationCacheConfig{
		TTL:              DefaultCacheTTL,
		OperationTimeout: 500 * time.Millisecond,
		BreakerEnabled:   true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// RecommendationCache is a best-effort cache of ranked windows keyed by
// (group, date). Store failures are logged and reported as CacheUnavailable
// or as an error wrapping domain.ErrCacheUnavailable; they never panic or
// block past OperationTimeout.
type RecommendationCache struct {
	store   domain.CacheStore
	breaker *gobreaker.CircuitBreaker[[]byte]
	config  RecommendationCacheConfig
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewRecommendationCache creates a cache over the given store.
func NewRecommendationCache(
	store domain.CacheStore,
	config RecommendationCacheConfig,
	logger *slog.Logger,
	metrics observability.Metrics,
) *RecommendationCache {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}

	c := &RecommendationCache{
		store:   store,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}

	if config.BreakerEnabled {
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "recommendation-cache",
			MaxRequests: config.MaxRequests,
			Interval:    config.Interval,
			Timeout:     config.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= config.FailureThreshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, domain.ErrCacheMiss)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Info("circuit breaker state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
				metrics.Counter(observability.MetricCacheBreakerChanges, 1, observability.T("state", to.String()))
			},
		})
	}

	return c
}

// TTL returns the uniform entry lifetime.
func (c *RecommendationCache) TTL() time.Duration {
	return c.config.TTL
}

// Get looks up the cached recommendations for a group and date.
func (c *RecommendationCache) Get(ctx context.Context, groupID uuid.UUID, date time.Time) CacheLookup {
	key := domain.RecommendationCacheKey(groupID, date)

	data, err := c.execute(ctx, func(ctx context.Context) ([]byte, error) {
		return c.store.Get(ctx, key)
	})
	if errors.Is(err, domain.ErrCacheMiss) {
		return CacheLookup{Status: CacheMiss}
	}
	if err != nil {
		c.logger.Warn("recommendation cache lookup failed",
			"cache_key", key,
			"error", err,
		)
		return CacheLookup{Status: CacheUnavailable}
	}

	var entry CachedRecommendations
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("discarding undecodable recommendation cache entry",
			"cache_key", key,
			"error", err,
		)
		return CacheLookup{Status: CacheMiss}
	}

	return CacheLookup{Status: CacheHit, Entry: &entry}
}

// Put stores recommendations under the (group, date) key for the configured TTL.
func (c *RecommendationCache) Put(ctx context.Context, groupID uuid.UUID, date time.Time, entry CachedRecommendations) error {
	key := domain.RecommendationCacheKey(groupID, date)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %w", domain.ErrCacheUnavailable, key, err)
	}

	_, err = c.execute(ctx, func(ctx context.Context) ([]byte, error) {
		return nil, c.store.Set(ctx, key, data, c.config.TTL)
	})
	if err != nil {
		c.logger.Warn("recommendation cache write failed",
			"cache_key", key,
			"error", err,
		)
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Invalidate removes the (group, date) entry so the next request recomputes.
func (c *RecommendationCache) Invalidate(ctx context.Context, groupID uuid.UUID, date time.Time) error {
	key := domain.RecommendationCacheKey(groupID, date)

	_, err := c.execute(ctx, func(ctx context.Context) ([]byte, error) {
		return nil, c.store.Delete(ctx, key)
	})
	if err != nil {
		c.logger.Warn("recommendation cache invalidation failed",
			"cache_key", key,
			"error", err,
		)
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}

	c.logger.Info("recommendation cache invalidated", "cache_key", key)
	return nil
}

// InvalidateGroup removes every cached date of a group. Membership changes
// alter the member count behind each score, so no date of the group stays
// valid.
func (c *RecommendationCache) InvalidateGroup(ctx context.Context, groupID uuid.UUID) (int, error) {
	prefix := domain.RecommendationGroupKeyPrefix(groupID)

	var removed int
	_, err := c.execute(ctx, func(ctx context.Context) ([]byte, error) {
		n, err := c.store.DeletePrefix(ctx, prefix)
		removed = n
		return nil, err
	})
	if err != nil {
		c.logger.Warn("recommendation cache group invalidation failed",
			"cache_prefix", prefix,
			"error", err,
		)
		return removed, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}

	c.logger.Info("recommendation cache group invalidated",
		"cache_prefix", prefix,
		"entries", removed,
	)
	return removed, nil
}

func (c *RecommendationCache) execute(ctx context.Context, fn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if c.config.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.OperationTimeout)
		defer cancel()
	}

	if c.breaker == nil {
		return fn(ctx)
	}
	return c.breaker.Execute(func() ([]byte, error) {
		return fn(ctx)
	})
}
