package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/pkg/observability"
	"github.com/google/uuid"
)

// RecommendRequest asks for ranked meeting windows for one group and date.
// A nil work bound selects the configured default for that bound alone.
type RecommendRequest struct {
	GroupID   uuid.UUID
	Date      time.Time
	Duration  time.Duration
	WorkStart *domain.TimeOfDay
	WorkEnd   *domain.TimeOfDay
}

// search is a validated request with both bounds resolved.
type search struct {
	GroupID   uuid.UUID
	Date      time.Time
	Duration  time.Duration
	WorkStart domain.TimeOfDay
	WorkEnd   domain.TimeOfDay
}

// Recommendation is the outcome of a Recommend call.
type Recommendation struct {
	GroupID      uuid.UUID
	Date         time.Time
	TotalMembers int
	Windows      []domain.RecommendationWindow
	Metadata     domain.AnalysisMetadata
}

// RecommendationConfig holds the search defaults.
type RecommendationConfig struct {
	WorkStart   domain.TimeOfDay
	WorkEnd     domain.TimeOfDay
	Granularity time.Duration
}

// DefaultRecommendationConfig searches 09:00-18:00 in 30 minute slots.
func DefaultRecommendationConfig() RecommendationConfig {
	return RecommendationConfig{
		WorkStart:   domain.DefaultWorkStart,
		WorkEnd:     domain.DefaultWorkEnd,
		Granularity: domain.SlotGranularity,
	}
}

// RecommendationService answers recommendation requests from the cache when
// it can and recomputes them otherwise. A recompute refreshes the snapshot
// and the cache; failures of either are logged and do not fail the request.
type RecommendationService struct {
	members   domain.MemberDirectory
	intervals domain.BusyIntervalSource
	snapshots domain.SnapshotRepository
	cache     *RecommendationCache
	config    RecommendationConfig
	logger    *slog.Logger
	metrics   observability.Metrics
	now       func() time.Time
}

// NewRecommendationService wires the orchestrator.
func NewRecommendationService(
	members domain.MemberDirectory,
	intervals domain.BusyIntervalSource,
	snapshots domain.SnapshotRepository,
	cache *RecommendationCache,
	config RecommendationConfig,
	logger *slog.Logger,
	metrics observability.Metrics,
) *RecommendationService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if config.Granularity <= 0 {
		config.Granularity = domain.SlotGranularity
	}
	// An end of 00:00 can never be valid, so it marks an unset window; a
	// start of 00:00 is only replaced together with it.
	if config.WorkEnd == 0 {
		if config.WorkStart == 0 {
			config.WorkStart = domain.DefaultWorkStart
		}
		config.WorkEnd = domain.DefaultWorkEnd
	}
	return &RecommendationService{
		members:   members,
		intervals: intervals,
		snapshots: snapshots,
		cache:     cache,
		config:    config,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Recommend returns up to domain.MaxRecommendations windows ordered by
// descending availability score.
func (s *RecommendationService) Recommend(ctx context.Context, r RecommendRequest) (*Recommendation, error) {
	req, err := s.normalize(r)
	if err != nil {
		return nil, err
	}

	key := domain.RecommendationCacheKey(req.GroupID, req.Date)
	logger := s.logger.With("group_id", req.GroupID, "date", req.Date.Format(domain.DateLayout))

	if result, ok := s.fromCache(ctx, logger, req, key); ok {
		return result, nil
	}

	timer := observability.StartTimer(s.metrics, observability.MetricRecommendationDuration)
	result, err := s.compute(ctx, req, key)
	timer.Stop(err)
	if err != nil {
		return nil, err
	}
	s.metrics.Counter(observability.MetricRecommendationsComputed, 1)

	if err := s.snapshots.Replace(ctx, req.GroupID, req.Date, result.Windows); err != nil {
		s.metrics.Counter(observability.MetricSnapshotFailures, 1)
		logger.WarnContext(ctx, "recommendation snapshot not persisted",
			"error", fmt.Errorf("%w: %w", domain.ErrSnapshotWrite, err),
		)
	}

	entry := CachedRecommendations{
		Duration:     req.Duration,
		WorkStart:    req.WorkStart,
		WorkEnd:      req.WorkEnd,
		TotalMembers: result.TotalMembers,
		ComputedAt:   result.Metadata.AnalyzedAt,
		Windows:      result.Windows,
	}
	if err := s.cache.Put(ctx, req.GroupID, req.Date, entry); err != nil {
		logger.WarnContext(ctx, "recommendations computed but not cached", "cache_key", key)
	}

	logger.InfoContext(ctx, "recommendations computed",
		"windows", len(result.Windows),
		"members", result.TotalMembers,
	)
	return result, nil
}

// Invalidate drops the cached recommendations for a group and date. The
// snapshot is left in place until the next recompute replaces it.
func (s *RecommendationService) Invalidate(ctx context.Context, groupID uuid.UUID, date time.Time) error {
	if err := s.cache.Invalidate(ctx, groupID, domain.NormalizeDate(date)); err != nil {
		return err
	}
	s.metrics.Counter(observability.MetricCacheInvalidated, 1)
	return nil
}

// InvalidateGroup drops the cached recommendations for every date of a group.
func (s *RecommendationService) InvalidateGroup(ctx context.Context, groupID uuid.UUID) error {
	removed, err := s.cache.InvalidateGroup(ctx, groupID)
	if err != nil {
		return err
	}
	s.metrics.Counter(observability.MetricCacheInvalidated, int64(removed))
	return nil
}

// Snapshot returns the last persisted recommendation set.
func (s *RecommendationService) Snapshot(ctx context.Context, groupID uuid.UUID, date time.Time) ([]domain.RecommendationWindow, error) {
	windows, err := s.snapshots.FindByGroupAndDate(ctx, groupID, domain.NormalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("load snapshot for group %s: %w", groupID, err)
	}
	return windows, nil
}

func (s *RecommendationService) normalize(req RecommendRequest) (search, error) {
	if req.GroupID == uuid.Nil {
		return search{}, fmt.Errorf("%w: group id is required", domain.ErrInvalidRange)
	}
	if req.Date.IsZero() {
		return search{}, fmt.Errorf("%w: date is required", domain.ErrInvalidRange)
	}
	if _, err := domain.RequiredSlots(req.Duration, s.config.Granularity); err != nil {
		return search{}, err
	}

	out := search{
		GroupID:   req.GroupID,
		Date:      domain.NormalizeDate(req.Date),
		Duration:  req.Duration,
		WorkStart: s.config.WorkStart,
		WorkEnd:   s.config.WorkEnd,
	}
	if req.WorkStart != nil {
		out.WorkStart = *req.WorkStart
	}
	if req.WorkEnd != nil {
		out.WorkEnd = *req.WorkEnd
	}
	if !out.WorkStart.Before(out.WorkEnd) {
		return search{}, fmt.Errorf("%w: work start %s must be before work end %s",
			domain.ErrInvalidRange, out.WorkStart, out.WorkEnd)
	}
	return out, nil
}

func (s *RecommendationService) fromCache(ctx context.Context, logger *slog.Logger, req search, key string) (*Recommendation, bool) {
	lookup := s.cache.Get(ctx, req.GroupID, req.Date)

	switch lookup.Status {
	case CacheUnavailable:
		s.metrics.Counter(observability.MetricCacheUnavailable, 1)
		return nil, false
	case CacheMiss:
		s.metrics.Counter(observability.MetricCacheMiss, 1)
		return nil, false
	}

	entry := lookup.Entry
	if !entry.Matches(req.Duration, req.WorkStart, req.WorkEnd) {
		s.metrics.Counter(observability.MetricCacheStale, 1)
		logger.DebugContext(ctx, "cached recommendations were computed for other parameters",
			"cache_key", key,
			"cached_duration", entry.Duration,
			"requested_duration", req.Duration,
		)
		return nil, false
	}

	s.metrics.Counter(observability.MetricCacheHit, 1)
	windows := entry.Windows
	if windows == nil {
		windows = []domain.RecommendationWindow{}
	}
	analyzedAt := entry.ComputedAt
	if analyzedAt.IsZero() {
		analyzedAt = s.now().UTC()
	}
	return &Recommendation{
		GroupID:      req.GroupID,
		Date:         req.Date,
		TotalMembers: entry.TotalMembers,
		Windows:      windows,
		Metadata: domain.AnalysisMetadata{
			AnalyzedAt:        analyzedAt,
			RequestedDuration: req.Duration,
			SearchStart:       req.WorkStart,
			SearchEnd:         req.WorkEnd,
			FromCache:         true,
			CacheKey:          key,
		},
	}, true
}

func (s *RecommendationService) compute(ctx context.Context, req search, key string) (*Recommendation, error) {
	members, err := s.members.ListGroupMembers(ctx, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("%w: list members of group %s: %w", domain.ErrUpstreamLookup, req.GroupID, err)
	}

	var intervals []domain.BusyInterval
	if len(members) > 0 {
		intervals, err = s.intervals.ListBusyIntervals(ctx, members, req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: list busy intervals for group %s: %w", domain.ErrUpstreamLookup, req.GroupID, err)
		}
	}

	windows, err := rank(req, members, intervals, s.config.Granularity)
	if err != nil {
		return nil, err
	}

	return &Recommendation{
		GroupID:      req.GroupID,
		Date:         req.Date,
		TotalMembers: len(members),
		Windows:      windows,
		Metadata: domain.AnalysisMetadata{
			AnalyzedAt:        s.now().UTC(),
			RequestedDuration: req.Duration,
			SearchStart:       req.WorkStart,
			SearchEnd:         req.WorkEnd,
			CacheKey:          key,
		},
	}, nil
}

// rank runs grid generation, availability evaluation and window aggregation.
func rank(req search, members []uuid.UUID, intervals []domain.BusyInterval, granularity time.Duration) ([]domain.RecommendationWindow, error) {
	windows := []domain.RecommendationWindow{}
	if len(members) == 0 {
		return windows, nil
	}

	grid, err := domain.GenerateGrid(req.WorkStart, req.WorkEnd, granularity)
	if err != nil {
		return nil, err
	}
	evaluated := domain.EvaluateAvailability(grid, members, intervals, req.Date)

	aggregated, err := domain.AggregateWindows(evaluated, req.Duration, granularity)
	if err != nil {
		return nil, err
	}

	return append(windows, domain.NewRecommendationWindows(req.GroupID, req.Date, aggregated)...), nil
}
