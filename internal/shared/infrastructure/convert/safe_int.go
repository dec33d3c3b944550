// Package convert provides checked conversions between Go values and their
// column representations.
package convert

import (
	"fmt"
	"math"
	"time"
)

// IntToInt32 safely converts an int to int32, returning an error if overflow occurs.
func IntToInt32(v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// MinutesOfDay converts an offset from midnight to whole minutes. Offsets
// with a sub-minute part or outside [0, 24h] are rejected.
func MinutesOfDay(d time.Duration) (int32, error) {
	if d < 0 || d > 24*time.Hour {
		return 0, fmt.Errorf("offset %s is outside a day", d)
	}
	if d%time.Minute != 0 {
		return 0, fmt.Errorf("offset %s is not a whole number of minutes", d)
	}
	return int32(d / time.Minute), nil
}

// MinutesToDuration is the inverse of MinutesOfDay.
func MinutesToDuration(minutes int64) time.Duration {
	return time.Duration(minutes) * time.Minute
}
