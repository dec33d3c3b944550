package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/schedly/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, srv *http.Server, path string) (int, observability.OverallHealth) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var report observability.OverallHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	return rec.Code, report
}

func TestHealthServer_DegradedCacheStaysReady(t *testing.T) {
	health := observability.NewHealthRegistry()
	health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy,
		func(context.Context) error { return nil }))
	health.Register("cache", observability.PingChecker("redis", observability.HealthStatusDegraded,
		func(context.Context) error { return io.ErrUnexpectedEOF }))

	srv := newHealthServer("127.0.0.1:0", health)

	for _, path := range []string{"/healthz", "/readyz"} {
		code, report := get(t, srv, path)
		assert.Equal(t, http.StatusOK, code, path)
		assert.Equal(t, observability.HealthStatusDegraded, report.Status)
		assert.Contains(t, report.Checks["cache"].Message, "redis unreachable")
	}
}

func TestHealthServer_StoppedProcessorIsUnhealthy(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	processor := outbox.NewProcessor(nil, eventbus.NewNoopPublisher(logger), outbox.DefaultProcessorConfig(), logger, observability.NoopMetrics{})

	health := observability.NewHealthRegistry()
	health.Register("outbox", processorChecker(processor))

	code, report := get(t, newHealthServer("127.0.0.1:0", health), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "outbox processor stopped", report.Checks["outbox"].Message)
}
