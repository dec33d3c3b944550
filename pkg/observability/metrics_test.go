package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryMetrics_Counter(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricCacheHit, 1)
	m.Counter(MetricCacheHit, 2)
	m.Counter(MetricEventsFailed, 1, T("routing_key", "schedules.entry.recorded"))

	assert.Equal(t, int64(3), m.GetCounter(MetricCacheHit))
	assert.Equal(t, int64(1), m.GetCounter(MetricEventsFailed, T("routing_key", "schedules.entry.recorded")))
	assert.Zero(t, m.GetCounter(MetricEventsFailed), "untagged series is separate")
}

func TestInMemoryMetrics_TagOrderDoesNotSplitSeries(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter("events", 1, T("a", "1"), T("b", "2"))
	m.Counter("events", 1, T("b", "2"), T("a", "1"))

	assert.Equal(t, int64(2), m.GetCounter("events", T("a", "1"), T("b", "2")))
}

func TestInMemoryMetrics_Timings(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Timing(MetricRecommendationDuration, 3*time.Millisecond)
	m.Timing(MetricRecommendationDuration, 5*time.Millisecond)

	got := m.GetTimings(MetricRecommendationDuration)
	assert.Equal(t, []time.Duration{3 * time.Millisecond, 5 * time.Millisecond}, got)

	got[0] = 0
	assert.Equal(t, 3*time.Millisecond, m.GetTimings(MetricRecommendationDuration)[0], "returned slice is a copy")
}

func TestInMemoryMetrics_Reset(t *testing.T) {
	m := NewInMemoryMetrics()
	m.Counter("c", 1)
	m.Timing("t", time.Second)

	m.Reset()

	assert.Zero(t, m.GetCounter("c"))
	assert.Empty(t, m.GetTimings("t"))
}

func TestInMemoryMetrics_Concurrent(t *testing.T) {
	m := NewInMemoryMetrics()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Counter(MetricRecommendationsComputed, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.GetCounter(MetricRecommendationsComputed))
}

func TestSeriesKey(t *testing.T) {
	assert.Equal(t, "hits", seriesKey("hits", nil))
	assert.Equal(t, "hits{a=1,z=2}", seriesKey("hits", []Tag{T("z", "2"), T("a", "1")}))
}

func TestNoopMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		NoopMetrics{}.Counter("c", 1)
		NoopMetrics{}.Timing("t", time.Second)
	})
}

func TestTimer(t *testing.T) {
	t.Run("records timing tagged with outcome", func(t *testing.T) {
		m := NewInMemoryMetrics()

		StartTimer(m, "work", T("group", "g1")).Stop(nil)
		StartTimer(m, "work", T("group", "g1")).Stop(assert.AnError)

		assert.Len(t, m.GetTimings("work", T("group", "g1"), T("outcome", "ok")), 1)
		assert.Len(t, m.GetTimings("work", T("outcome", "error"), T("group", "g1")), 1)
	})

	t.Run("nil metrics is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			StartTimer(nil, "work").Stop(nil)
		})
	})
}
