package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"expertise-marketplace/internal/config"
	badgerdb "expertise-marketplace/internal/database/badger"
	mongodb "expertise-marketplace/internal/database/mongo"
	dbpostgres "expertise-marketplace/internal/database/postgres"
	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/infrastructure/cache"
	"expertise-marketplace/internal/infrastructure/events"
	"expertise-marketplace/internal/metrics"
	"expertise-marketplace/internal/repository"
	"expertise-marketplace/internal/usecase"
	"expertise-marketplace/internal/ws"
)

// Store is the record store a driver produced: both collections plus the
// handle used for health checks.
type Store struct {
	Experts     expert.Repository
	Nominations expert.NominationRepository
	Pinger      interface{ Ping(ctx context.Context) error }

	closers []io.Closer
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStore connects the configured driver and prepares its collections.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		experts := repository.NewMongoExpertRepository(client.Database(), cfg.ExpertsCollection)
		if err := experts.EnsureIndexes(ctx); err != nil {
			logger.Printf("[Store] %v", err)
		}
		return &Store{
			Experts:     experts,
			Nominations: repository.NewMongoNominationRepository(client.Database(), config.NominationsCollection),
			Pinger:      client,
			closers:     []io.Closer{client},
		}, nil

	case config.DriverPostgres:
		pool, err := dbpostgres.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		experts := repository.NewPostgresExpertRepository(pool, cfg.ExpertsCollection)
		if err := experts.EnsureSchema(ctx); err != nil {
			_ = pool.Close()
			return nil, err
		}
		return &Store{
			Experts:     experts,
			Nominations: repository.NewPostgresNominationRepository(pool, config.NominationsCollection),
			Pinger:      pool,
			closers:     []io.Closer{pool},
		}, nil

	case config.DriverBadger:
		backend, err := badgerdb.Open(cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("open badger: %w", err)
		}
		experts, err := repository.NewBadgerExpertRepository(backend, cfg.ExpertsCollection)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		nominations, err := repository.NewBadgerNominationRepository(backend, config.NominationsCollection)
		if err != nil {
			_ = experts.Close()
			_ = backend.Close()
			return nil, err
		}
		if cfg.Path == "" {
			logger.Printf("[Store] badger running in memory, records are lost on exit")
		}
		return &Store{
			Experts:     experts,
			Nominations: nominations,
			Pinger:      backend,
			closers:     []io.Closer{backend, experts, nominations},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

type Container struct {
	Config    config.Config
	Logger    *log.Logger
	Store     *Store
	Cache     *cache.Redis
	Metrics   *metrics.Manager
	Hub       *ws.Hub
	AMQP      *events.AMQPPublisher
	Directory *usecase.Directory

	stopHub context.CancelFunc
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	timeout := cfg.Store.ConnectTimeout
	if timeout <= 0 {
		timeout = config.Defaults().Store.ConnectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	store, err := OpenStore(connectCtx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Cache:   cache.NewRedis(cfg.Redis, logger),
		Metrics: metrics.NewManager(),
	}

	amqpPub, err := events.NewAMQPPublisher(cfg.Events, logger)
	if err != nil {
		// Events are best-effort; the directory works without a broker.
		logger.Printf("[Events] %v, AMQP publishing disabled", err)
		amqpPub = nil
	}
	c.AMQP = amqpPub

	sinks := make([]events.Sink, 0, 2)
	if amqpPub != nil {
		sinks = append(sinks, amqpPub)
	}
	if cfg.Events.WSEnabled {
		c.Hub = ws.NewHub(logger)
		hubCtx, stop := context.WithCancel(context.Background())
		c.stopHub = stop
		go c.Hub.Run(hubCtx)
		sinks = append(sinks, ws.NewSink(c.Hub))
	}

	c.Directory = usecase.NewDirectoryUsecase(usecase.DirectoryDeps{
		Experts:     store.Experts,
		Nominations: store.Nominations,
		IDs:         usecase.UUIDGenerator{},
		Cache:       c.Cache,
		Notifier:    events.NewFanout(logger, c.Metrics, sinks...),
		Metrics:     c.Metrics,
		Logger:      logger,
	})

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	var errs []error
	if err := c.AMQP.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
