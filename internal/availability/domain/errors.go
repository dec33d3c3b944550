package domain

import "errors"

var (
	// ErrInvalidRange is returned for malformed time bounds or a non-positive
	// granularity or duration.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrUpstreamLookup is returned when group members or busy intervals
	// could not be retrieved.
	ErrUpstreamLookup = errors.New("upstream lookup failed")

	// ErrCacheUnavailable marks a recommendation cache backend failure.
	// It is absorbed by the orchestrator and never returned to callers.
	ErrCacheUnavailable = errors.New("recommendation cache unavailable")

	// ErrSnapshotWrite marks a failure to replace the persisted snapshot.
	// It is absorbed by the orchestrator and never returned to callers.
	ErrSnapshotWrite = errors.New("recommendation snapshot write failed")
)
