package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/config"
	"github.com/markushhgo/parkkihubi/internal/delivery/http/handler"
	"github.com/markushhgo/parkkihubi/internal/delivery/http/middleware"
	"github.com/markushhgo/parkkihubi/internal/repository/cache"
	"github.com/markushhgo/parkkihubi/internal/repository/postgres"
)

// Server is the Fiber HTTP server carrying the enforcement, operator
// and public route groups.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	db    *postgres.DB
	redis *cache.Redis

	checkHandler        *handler.CheckHandler
	eventParkingHandler *handler.EventParkingHandler
	eventAreaHandler    *handler.EventAreaHandler
	statisticsHandler   *handler.StatisticsHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *postgres.DB,
	redis *cache.Redis,
	checkHandler *handler.CheckHandler,
	eventParkingHandler *handler.EventParkingHandler,
	eventAreaHandler *handler.EventAreaHandler,
	statisticsHandler *handler.StatisticsHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Parking Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                 app,
		config:              cfg,
		logger:              logger,
		db:                  db,
		redis:               redis,
		checkHandler:        checkHandler,
		eventParkingHandler: eventParkingHandler,
		eventAreaHandler:    eventAreaHandler,
		statisticsHandler:   statisticsHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.health)

	enforcement := s.app.Group("/enforcement/v1", middleware.EnforcerAuth(&s.config.Enforcement))
	enforcement.Post("/check_parking", s.checkHandler.CheckParking)
	enforcement.Put("/event_area", s.eventAreaHandler.Save)
	enforcement.Get("/event_area/:id", s.eventAreaHandler.Get)
	enforcement.Delete("/event_area/:id", s.eventAreaHandler.Delete)

	operator := s.app.Group("/operator/v1", middleware.OperatorAuth(&s.config.Enforcement))
	operator.Post("/event_parking", s.eventParkingHandler.Create)
	operator.Get("/event_parking/:id", s.eventParkingHandler.Get)
	operator.Put("/event_parking/:id", s.eventParkingHandler.Update)
	operator.Delete("/event_parking/:id", s.eventParkingHandler.Delete)

	public := s.app.Group("/public/v1")
	public.Get("/event_area_statistics/:id", s.statisticsHandler.GetEventAreaStatistics)
}

func (s *Server) health(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK

	if err := s.db.Health(c.Context()); err != nil {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}
	if err := s.redis.Health(c.Context()); err != nil {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now(),
	})
}

// Start runs the HTTP server until Shutdown.
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
