package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	availabilityCommands "github.com/felixgeelhaar/schedly/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/schedly/internal/availability/application/queries"
	"github.com/felixgeelhaar/schedly/internal/availability/application/services"
	"github.com/felixgeelhaar/schedly/internal/availability/application/subscribers"
	availabilityDomain "github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/internal/availability/infrastructure/cache"
	groupCommands "github.com/felixgeelhaar/schedly/internal/groups/application/commands"
	groupQueries "github.com/felixgeelhaar/schedly/internal/groups/application/queries"
	groupsDomain "github.com/felixgeelhaar/schedly/internal/groups/domain"
	entryCommands "github.com/felixgeelhaar/schedly/internal/schedules/application/commands"
	entryQueries "github.com/felixgeelhaar/schedly/internal/schedules/application/queries"
	sharedApplication "github.com/felixgeelhaar/schedly/internal/shared/application"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/schedly/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/schedly/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/schedly/pkg/config"
	"github.com/felixgeelhaar/schedly/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis, set only for the redis cache backend
	RedisClient *redis.Client

	// Repositories
	EntryRepo      EntryStore
	MembershipRepo groupsDomain.Repository
	SnapshotRepo   availabilityDomain.SnapshotRepository
	OutboxRepo     outbox.Repository
	UnitOfWork     sharedApplication.UnitOfWork

	// Recommendations
	CacheStore            availabilityDomain.CacheStore
	RecommendationCache   *services.RecommendationCache
	RecommendationService *services.RecommendationService

	RecommendHandler                 *availabilityQueries.RecommendHandler
	GetSnapshotHandler               *availabilityQueries.GetSnapshotHandler
	InvalidateRecommendationsHandler *availabilityCommands.InvalidateRecommendationsHandler

	// Schedule entries
	RecordEntryHandler *entryCommands.RecordEntryHandler
	UpdateEntryHandler *entryCommands.UpdateEntryHandler
	RemoveEntryHandler *entryCommands.RemoveEntryHandler
	ListEntriesHandler *entryQueries.ListEntriesHandler

	// Groups
	AddMemberHandler         *groupCommands.AddMemberHandler
	RemoveMemberHandler      *groupCommands.RemoveMemberHandler
	ListGroupMembersHandler  *groupQueries.ListGroupMembersHandler
	ListGroupsForUserHandler *groupQueries.ListGroupsForUserHandler

	// Events
	ScheduleChangedSubscriber *subscribers.ScheduleChangedSubscriber
	EventPublisher            eventbus.Publisher
	InProcessEventBus         *eventbus.InProcessEventBus
	OutboxProcessor           *outbox.Processor
}

// NewContainer wires a container whose outbox relays to an in-process bus,
// so schedule changes invalidate cached recommendations inside the calling
// process once Flush runs. The CLI uses it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c, err := newContainer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	c.InProcessEventBus = eventbus.NewInProcessEventBus(logger, c.Metrics)
	c.InProcessEventBus.RegisterConsumer(c.ScheduleChangedSubscriber)
	c.EventPublisher = c.InProcessEventBus
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig(cfg), logger, c.Metrics)

	logger.Debug("container initialized",
		"driver", c.DBDriver,
		"cache_backend", cfg.CacheBackend,
		"publisher", "inprocess",
	)
	return c, nil
}

// NewWorkerContainer wires a container whose outbox relays to RabbitMQ. In
// development an unreachable broker falls back to the in-process bus.
func NewWorkerContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c, err := newContainer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			c.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		logger.Warn("RabbitMQ not available, relaying events in-process", "error", err)
		c.InProcessEventBus = eventbus.NewInProcessEventBus(logger, c.Metrics)
		c.InProcessEventBus.RegisterConsumer(c.ScheduleChangedSubscriber)
		c.EventPublisher = c.InProcessEventBus
	} else {
		c.EventPublisher = publisher
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig(cfg), logger, c.Metrics)
	return c, nil
}

func newContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	workStart, workEnd, err := workHours(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := database.Open(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, conn.Ping))

	factory := NewRepositoryFactory(conn)
	if err := factory.Migrate(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := c.initRepositories(factory); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initCacheStore(); err != nil {
		c.Close()
		return nil, err
	}

	c.RecommendationCache = services.NewRecommendationCache(c.CacheStore, cacheConfig(cfg), logger, c.Metrics)
	c.RecommendationService = services.NewRecommendationService(
		c.MembershipRepo,
		c.EntryRepo,
		c.SnapshotRepo,
		c.RecommendationCache,
		services.RecommendationConfig{
			WorkStart:   workStart,
			WorkEnd:     workEnd,
			Granularity: availabilityDomain.SlotGranularity,
		},
		logger,
		c.Metrics,
	)

	c.RecommendHandler = availabilityQueries.NewRecommendHandler(c.RecommendationService)
	c.GetSnapshotHandler = availabilityQueries.NewGetSnapshotHandler(c.RecommendationService)
	c.InvalidateRecommendationsHandler = availabilityCommands.NewInvalidateRecommendationsHandler(c.RecommendationService)

	c.RecordEntryHandler = entryCommands.NewRecordEntryHandler(c.EntryRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateEntryHandler = entryCommands.NewUpdateEntryHandler(c.EntryRepo, c.OutboxRepo, c.UnitOfWork)
	c.RemoveEntryHandler = entryCommands.NewRemoveEntryHandler(c.EntryRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListEntriesHandler = entryQueries.NewListEntriesHandler(c.EntryRepo)

	c.AddMemberHandler = groupCommands.NewAddMemberHandler(c.MembershipRepo, c.RecommendationService, logger)
	c.RemoveMemberHandler = groupCommands.NewRemoveMemberHandler(c.MembershipRepo, c.RecommendationService, logger)
	c.ListGroupMembersHandler = groupQueries.NewListGroupMembersHandler(c.MembershipRepo)
	c.ListGroupsForUserHandler = groupQueries.NewListGroupsForUserHandler(c.MembershipRepo)

	c.ScheduleChangedSubscriber = subscribers.NewScheduleChangedSubscriber(c.MembershipRepo, c.RecommendationService, logger)

	return c, nil
}

func (c *Container) initRepositories(factory *RepositoryFactory) error {
	var err error
	if c.EntryRepo, err = factory.EntryRepository(); err != nil {
		return fmt.Errorf("failed to create schedule entry repository: %w", err)
	}
	if c.MembershipRepo, err = factory.MembershipRepository(); err != nil {
		return fmt.Errorf("failed to create membership repository: %w", err)
	}
	if c.SnapshotRepo, err = factory.SnapshotRepository(); err != nil {
		return fmt.Errorf("failed to create snapshot repository: %w", err)
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return fmt.Errorf("failed to create outbox repository: %w", err)
	}
	if c.UnitOfWork, err = factory.UnitOfWork(); err != nil {
		return fmt.Errorf("failed to create unit of work: %w", err)
	}
	return nil
}

// initCacheStore selects the recommendation cache backend. An unreachable
// Redis is not fatal: the cache reports itself unavailable and requests
// are computed directly.
func (c *Container) initCacheStore() error {
	switch c.Config.CacheBackend {
	case config.CacheBackendRedis:
		client, err := cache.NewRedisClient(c.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.RedisClient = client
		store := cache.NewRedisStore(client)
		c.CacheStore = store
		c.Health.Register("cache", observability.PingChecker("redis", observability.HealthStatusDegraded, store.Ping))

	case config.CacheBackendMemory:
		store, err := cache.NewMemoryStore(c.Config.CacheMemorySize)
		if err != nil {
			return fmt.Errorf("failed to create memory cache: %w", err)
		}
		c.CacheStore = store

	default:
		c.CacheStore = cache.NoopStore{}
	}
	return nil
}

// Flush relays pending outbox messages until none are left, so subscribers
// have run by the time a CLI command returns.
func (c *Container) Flush(ctx context.Context) error {
	for {
		n, err := c.OutboxProcessor.ProcessOnce(ctx)
		if err != nil {
			return fmt.Errorf("relay outbox: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err, "driver", c.DBDriver)
		}
	}
}

func workHours(cfg *config.Config) (availabilityDomain.TimeOfDay, availabilityDomain.TimeOfDay, error) {
	start, err := availabilityDomain.ParseTimeOfDay(cfg.WorkStart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid WORK_START: %w", err)
	}
	end, err := availabilityDomain.ParseTimeOfDay(cfg.WorkEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid WORK_END: %w", err)
	}
	if !start.Before(end) {
		return 0, 0, fmt.Errorf("%w: WORK_START %s is not before WORK_END %s", availabilityDomain.ErrInvalidRange, start, end)
	}
	return start, end, nil
}

func cacheConfig(cfg *config.Config) services.RecommendationCacheConfig {
	cacheCfg := services.DefaultRecommendationCacheConfig()
	cacheCfg.TTL = cfg.CacheTTL
	cacheCfg.OperationTimeout = cfg.CacheOpTimeout
	cacheCfg.BreakerEnabled = cfg.CacheBreakerFailures > 0
	if cfg.CacheBreakerFailures > 0 {
		cacheCfg.FailureThreshold = uint32(cfg.CacheBreakerFailures)
	}
	if cfg.CacheBreakerTimeout > 0 {
		cacheCfg.Timeout = cfg.CacheBreakerTimeout
	}
	return cacheCfg
}

func processorConfig(cfg *config.Config) outbox.ProcessorConfig {
	processorCfg := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorCfg.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorCfg.BatchSize = cfg.OutboxBatchSize
	}
	processorCfg.MaxRetries = cfg.OutboxMaxRetries
	processorCfg.Retention = time.Duration(cfg.OutboxRetentionDays) * 24 * time.Hour
	return processorCfg
}
