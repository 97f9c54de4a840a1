package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"orderflow/internal/adapters/out/memory/orderrepo"
	"orderflow/internal/adapters/out/postgres/journalrepo"
	"orderflow/internal/adapters/out/redis/publisher"
	"orderflow/internal/core/application/coordinator"
	"orderflow/internal/core/application/notify"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config   Config
	logger   *slog.Logger
	repo     *orderrepo.OrderRepository
	notifier *notify.Notifier
	clock    kernel.Clock

	coordinator *coordinator.Coordinator
	jobManager  *jobs.JobManager

	gormDB      *gorm.DB
	redisClient redis.UniversalClient
}

// NewCompositionRoot wires the application. The pending order processor is
// subscribed last so that the journal and the publisher see the Pending event
// before the order can move on. Optional adapters are enabled by config.
func NewCompositionRoot(ctx context.Context, config Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:   config,
		logger:   logger,
		repo:     orderrepo.NewOrderRepository(),
		notifier: notify.NewNotifier(),
		clock:    kernel.NewSystemClock(),
	}

	c.coordinator = coordinator.New(coordinator.Handlers{
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		CancelOrder:     c.CreateCancelOrderCommandHandler(),
		AdvanceOrder:    c.CreateAdvanceOrderCommandHandler(),
		TransitionOrder: c.CreateTransitionOrderCommandHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
	}, c.notifier)

	if config.JournalEnabled() {
		journal, err := c.openJournal(ctx)
		if err != nil {
			return nil, err
		}
		c.coordinator.AddObserver(journal)
	}

	if config.PublisherEnabled() {
		c.redisClient = redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		if err := c.redisClient.Ping(ctx).Err(); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.coordinator.AddObserver(publisher.NewStatusPublisher(c.redisClient, config.RedisChannel, logger))
	}

	timer := jobs.NewCronTimer(logger)
	processor, err := jobs.NewPendingOrderProcessor(
		c.CreateProcessPendingOrderCommandHandler(),
		timer,
		config.AdvanceDelay,
		logger,
	)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.jobManager = jobs.NewJobManager(timer, processor, logger)
	c.coordinator.AddObserver(processor)

	return c, nil
}

func (c *CompositionRoot) openJournal(ctx context.Context) (*journalrepo.GormJournal, error) {
	db, err := gorm.Open(postgres.Open(c.config.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.gormDB = db

	journal := journalrepo.NewGormJournal(db, c.logger)
	if err := journal.AutoMigrate(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return journal, nil
}

func (c *CompositionRoot) Coordinator() *coordinator.Coordinator {
	return c.coordinator
}

// StartJobs starts the background jobs. On failure the connections are
// released before the error is returned.
func (c *CompositionRoot) StartJobs() error {
	if err := c.jobManager.StartAll(); err != nil {
		c.Close()
		return err
	}
	return nil
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// Close releases the database and redis connections, if any.
func (c *CompositionRoot) Close() {
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			c.logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				c.logger.Warn("failed to close database", "error", err)
			}
		}
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.repo, c.notifier, c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.repo, c.notifier)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.repo, c.notifier)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.repo, c.notifier)
}

func (c *CompositionRoot) CreateProcessPendingOrderCommandHandler() commands.ProcessPendingOrderCommandHandler {
	return commands.NewProcessPendingOrderCommandHandler(c.repo, c.notifier)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.repo)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.repo)
}
