package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/schedly/pkg/observability"
)

// newHealthServer serves the registry on /healthz and /readyz. Both answer
// 503 only when a check is unhealthy; a degraded cache keeps the worker ready.
func newHealthServer(addr string, health *observability.HealthRegistry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/healthz", health.Handler())
	mux.Handle("/readyz", health.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func serveHealth(ctx context.Context, srv *http.Server, logger *slog.Logger) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()

	logger.Info("health server starting", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("health server error", "error", err)
	}
}

func processorChecker(processor *outbox.Processor) observability.HealthChecker {
	return func(context.Context) observability.HealthCheckResult {
		if !processor.IsRunning() {
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusUnhealthy,
				Message: "outbox processor stopped",
			}
		}
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy}
	}
}
