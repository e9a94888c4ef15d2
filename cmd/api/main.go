package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/config"
	httpDelivery "github.com/markushhgo/parkkihubi/internal/delivery/http"
	"github.com/markushhgo/parkkihubi/internal/delivery/http/handler"
	"github.com/markushhgo/parkkihubi/internal/pkg/clock"
	"github.com/markushhgo/parkkihubi/internal/pkg/logger"
	"github.com/markushhgo/parkkihubi/internal/repository/cache"
	"github.com/markushhgo/parkkihubi/internal/repository/postgres"
	"github.com/markushhgo/parkkihubi/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Parking Service API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Int("domain_srid", cfg.Check.DomainSRID),
	)

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

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories
	areaRepo := postgres.NewAreaRepository(db)
	parkingRepo := postgres.NewParkingRepository(db)
	permitRepo := postgres.NewPermitRepository(db)
	eventParkingRepo := postgres.NewEventParkingRepository(db)
	eventAreaRepo := postgres.NewEventAreaRepository(db)
	checkRepo := postgres.NewCheckRepository(db)
	statsRepo := postgres.NewStatisticsRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	now := clock.System()

	checkUC := usecase.NewCheckUseCase(
		areaRepo,
		parkingRepo,
		permitRepo,
		eventParkingRepo,
		checkRepo,
		log,
		cfg.Check.GraceDuration,
		now,
	)

	statsUC := usecase.NewStatisticsUseCase(
		statsRepo,
		cacheRepo,
		log,
		cfg.Cache.StatisticsCacheTTL,
		now,
	)

	eventParkingUC := usecase.NewEventParkingUseCase(
		eventParkingRepo,
		eventAreaRepo,
		areaRepo,
		statsUC,
		log,
		cfg.Check.ClosestAreaMaxDistance,
	)

	eventAreaUC := usecase.NewEventAreaUseCase(
		eventAreaRepo,
		areaRepo,
		statsRepo,
		log,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers
	checkHandler := handler.NewCheckHandler(checkUC, log)
	eventParkingHandler := handler.NewEventParkingHandler(eventParkingUC, log)
	eventAreaHandler := handler.NewEventAreaHandler(eventAreaUC, log, now)
	statisticsHandler := handler.NewStatisticsHandler(statsUC, log)

	// 9. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		db,
		redisClient,
		checkHandler,
		eventParkingHandler,
		eventAreaHandler,
		statisticsHandler,
	)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
