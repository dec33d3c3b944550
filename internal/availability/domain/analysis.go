package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CacheKeyPrefix namespaces recommendation entries in the cache.
const CacheKeyPrefix = "schedule:recommendation:"

// RecommendationCacheKey renders the cache key for a (group, date) pair.
func RecommendationCacheKey(groupID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", CacheKeyPrefix, groupID, NormalizeDate(date).Format(DateLayout))
}

// RecommendationGroupKeyPrefix is the prefix shared by every cached date of
// one group.
func RecommendationGroupKeyPrefix(groupID uuid.UUID) string {
	return CacheKeyPrefix + groupID.String() + ":"
}

// AnalysisMetadata describes how a recommendation response was produced.
// It is part of the response envelope only and never persisted.
type AnalysisMetadata struct {
	AnalyzedAt        time.Time     `json:"analyzed_at"`
	RequestedDuration time.Duration `json:"requested_duration"`
	SearchStart       TimeOfDay     `json:"search_start_time"`
	SearchEnd         TimeOfDay     `json:"search_end_time"`
	FromCache         bool          `json:"from_cache"`
	CacheKey          string        `json:"cache_key"`
}
