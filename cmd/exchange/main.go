package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/muhammadchandra19/token-exchange/internal/app/engine"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	snapshotv1 "github.com/muhammadchandra19/token-exchange/internal/domain/snapshot/v1"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
	memstate "github.com/muhammadchandra19/token-exchange/internal/infrastructure/memory/state"
	pebblestate "github.com/muhammadchandra19/token-exchange/internal/infrastructure/pebble/state"
	pgstate "github.com/muhammadchandra19/token-exchange/internal/infrastructure/postgresql/state"
	"github.com/muhammadchandra19/token-exchange/internal/usecase/custody"
	eventpublisher "github.com/muhammadchandra19/token-exchange/internal/usecase/event-publisher"
	"github.com/muhammadchandra19/token-exchange/internal/usecase/ledger"
	"github.com/muhammadchandra19/token-exchange/internal/usecase/orderbook"
	"github.com/muhammadchandra19/token-exchange/internal/usecase/snapshot"
	"github.com/muhammadchandra19/token-exchange/pkg/config"
	"github.com/muhammadchandra19/token-exchange/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	"github.com/muhammadchandra19/token-exchange/pkg/postgresql"
	"github.com/muhammadchandra19/token-exchange/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	defer log.Sync()

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	health := healthcheck.New(2 * time.Second)

	// Redis holds checkpoints, and is the only durable copy for the memory driver
	var (
		rclient       redis.Client
		snapshotStore snapshotv1.Store
	)
	if cfg.Engine.CheckpointEnabled || cfg.Engine.StoreDriver == config.DriverMemory {
		rclient = redis.NewClient(log, &cfg.Redis)
		if err := rclient.Connect(ctx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
			return
		}
		health.Register("redis", rclient.Ping)
		snapshotStore = snapshot.NewSnapshotStore(rclient, cfg.Engine.CheckpointKey, log)
	}

	repo, closeRepo, err := openRepository(ctx, snapshotStore, health)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "open_repository"}, logger.Field{Key: "driver", Value: cfg.Engine.StoreDriver})
		return
	}
	defer closeRepo()

	var publisher eventv1.Publisher
	if cfg.Engine.RelayEnabled {
		publisher = eventpublisher.NewPublisher(cfg.Kafka, log)
	}

	options := app.DefaultEngineOptions()
	options.CheckpointInterval = cfg.Engine.CheckpointInterval
	options.RelayInterval = cfg.Engine.RelayInterval
	options.RelayBatchSize = cfg.Engine.RelayBatchSize
	if !cfg.Engine.CheckpointEnabled {
		// the memory driver still reads the last checkpoint on startup
		snapshotStore = nil
	}

	exchangeConfig := exchangev1.Config{
		Address:    assetv1.Address(cfg.Exchange.Address),
		FeeAccount: assetv1.Address(cfg.Exchange.FeeAccount),
		FeePercent: cfg.Exchange.FeePercent,
	}

	// Initialize components
	l := ledger.NewLedger()
	engine, err := app.NewEngineWithOptions(
		l,
		custody.NewCustody(l, exchangeConfig.Address),
		orderbook.NewOrderBook(),
		repo,
		snapshotStore,
		publisher,
		log,
		exchangeConfig,
		options,
	)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "create_engine"})
		return
	}

	// Start the engine
	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_engine"})
		return
	}
	health.Register("engine", engine.Ready)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HealthPort),
		Handler:           health.Handler(http.NotFoundHandler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.Field{Key: "action", Value: "health_server"})
		}
	}()

	log.Info("Token exchange started successfully",
		logger.Field{Key: "driver", Value: cfg.Engine.StoreDriver},
		logger.Field{Key: "exchange", Value: cfg.Exchange.Address},
		logger.Field{Key: "seq", Value: engine.Seq()},
	)

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	// Cancel the main context to signal shutdown
	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_health_server"})
	}

	// Stop the engine gracefully
	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "close_publisher"})
		}
	}

	if rclient != nil {
		if err := rclient.Disconnect(shutdownCtx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "close_redis_client"})
		}
	}

	log.Info("Token exchange shutdown complete")
}

// openRepository opens the configured durable store and returns a close function.
func openRepository(ctx context.Context, snapshotStore snapshotv1.Store, health *healthcheck.HealthCheck) (statev1.Repository, func(), error) {
	switch cfg.Engine.StoreDriver {
	case config.DriverPostgres:
		client, err := postgresql.NewClient(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		health.Register("postgres", postgresql.ReadinessCheck(client))
		return pgstate.NewRepository(client, log), client.Close, nil

	case config.DriverPebble:
		repo, err := pebblestate.Open(cfg.Pebble.Dir, log)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Error(err, logger.Field{Key: "action", Value: "close_pebble"})
			}
		}, nil

	case config.DriverMemory:
		snap, err := snapshotStore.Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		if snap == nil {
			log.Warn("No checkpoint found, starting from an empty state")
			return memstate.NewRepository(), func() {}, nil
		}
		repo, err := memstate.NewRepositoryFromSnapshot(snap)
		if err != nil {
			return nil, nil, err
		}
		log.Info("State restored from checkpoint", logger.Field{Key: "seq", Value: snap.Seq})
		return repo, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Engine.StoreDriver)
}
