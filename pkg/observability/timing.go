package observability

import (
	"time"
)

// Timer records how long an operation took as a Timing metric.
type Timer struct {
	name    string
	start   time.Time
	metrics Metrics
	tags    []Tag
}

// StartTimer starts timing the named metric.
func StartTimer(metrics Metrics, name string, tags ...Tag) *Timer {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Timer{
		name:    name,
		start:   time.Now(),
		metrics: metrics,
		tags:    tags,
	}
}

// Stop records the elapsed time, tagged with outcome=ok or outcome=error.
func (t *Timer) Stop(err error) time.Duration {
	elapsed := time.Since(t.start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	tags := append(append([]Tag{}, t.tags...), T("outcome", outcome))
	t.metrics.Timing(t.name, elapsed, tags...)
	return elapsed
}
