package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/schedly/internal/app"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/schedly/pkg/config"
	"github.com/felixgeelhaar/schedly/pkg/observability"
)

func main() {
	logConfig := observability.DefaultLogConfig()
	logConfig.Output = os.Stdout
	logConfig.ServiceName = "schedly-worker"

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(logConfig).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logConfig.Level = cfg.LogLevel
	logConfig.Format = observability.LogFormat(cfg.LogFormat)
	logConfig.Environment = cfg.AppEnv
	if cfg.IsDevelopment() {
		logConfig.Level = "debug"
	}
	logger := observability.NewLogger(logConfig)
	logger.Info("starting schedly worker")

	container, err := app.NewWorkerContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Schedule events published by any process land on the consumer queue
	// and invalidate cached recommendations here.
	registry := eventbus.NewConsumerRegistry(logger, container.Metrics)
	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       cfg.RabbitMQURL,
		QueueName: cfg.ConsumerQueue,
		Logger:    logger,
	}, registry)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to start RabbitMQ consumer", "error", err)
			os.Exit(1)
		}
		logger.Warn("RabbitMQ consumer not available, schedule events are handled in-process", "error", err)
	} else {
		defer consumer.Close()
		if err := consumer.RegisterConsumer(container.ScheduleChangedSubscriber); err != nil {
			logger.Error("failed to bind consumer", "error", err)
			os.Exit(1)
		}
		container.Health.Register("rabbitmq", observability.PingChecker("rabbitmq", observability.HealthStatusUnhealthy, consumer.Healthy))

		go func() {
			if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("consumer stopped", "error", err)
				cancel()
			}
		}()
	}

	container.Health.Register("outbox", processorChecker(container.OutboxProcessor))
	container.OutboxProcessor.Start(ctx)

	if cfg.WorkerHealthAddr != "" {
		srv := newHealthServer(cfg.WorkerHealthAddr, container.Health)
		go serveHealth(ctx, srv, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down worker")

	container.OutboxProcessor.Stop()
	logger.Info("worker stopped")
}
