package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/config"
	"github.com/markushhgo/parkkihubi/internal/pkg/clock"
	"github.com/markushhgo/parkkihubi/internal/pkg/logger"
	"github.com/markushhgo/parkkihubi/internal/repository/cache"
	"github.com/markushhgo/parkkihubi/internal/repository/postgres"
	"github.com/markushhgo/parkkihubi/internal/usecase"
	"github.com/markushhgo/parkkihubi/internal/worker"
	"github.com/markushhgo/parkkihubi/internal/worker/statistics"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Statistics Refresh Worker")
	log.Info("Configuration loaded",
		zap.Duration("refresh_interval", cfg.Worker.RefreshInterval))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, cfg.Check.DomainSRID, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories and use cases
	eventParkingRepo := postgres.NewEventParkingRepository(db)
	statsRepo := postgres.NewStatisticsRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	statsUC := usecase.NewStatisticsUseCase(
		statsRepo,
		cacheRepo,
		log,
		cfg.Cache.StatisticsCacheTTL,
		clock.System(),
	)

	// 6. Initialize workers
	refreshWorker := statistics.NewRefreshWorker(
		eventParkingRepo,
		statsUC,
		cfg.Worker.RefreshInterval,
		log,
	)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(refreshWorker)

	// 7. Graceful shutdown wiring
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
