package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/adapter/cache"
	"github.com/citypulse/citypulse/internal/adapter/http/fiber/handlers"
	"github.com/citypulse/citypulse/internal/adapter/http/fiber/middleware"
	"github.com/citypulse/citypulse/internal/adapter/queue"
	"github.com/citypulse/citypulse/internal/adapter/storage/postgres"
	"github.com/citypulse/citypulse/internal/adapter/vault"
	wsAdapter "github.com/citypulse/citypulse/internal/adapter/websocket"
	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/observability/telemetry"
	"github.com/citypulse/citypulse/internal/ports"
	"github.com/citypulse/citypulse/internal/service/auth"
	"github.com/citypulse/citypulse/internal/service/complaint"
	"github.com/citypulse/citypulse/internal/service/notification"
	"github.com/citypulse/citypulse/internal/service/user"
	"github.com/citypulse/citypulse/internal/service/worker"
	"github.com/citypulse/citypulse/pkg/config"
)

const (
	serviceName    = "citypulse"
	serviceVersion = "v1.0.0"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting CityPulse",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Vault overrides take precedence over file/env configuration.
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		if url, err := secrets.GetDatabaseURL(); err == nil {
			cfg.Database.URL = url
		} else {
			logger.Warn("Vault database URL unavailable", zap.Error(err))
		}
		if secret, err := secrets.GetJWTSecret(); err == nil {
			cfg.JWT.Secret = secret
		} else {
			logger.Warn("Vault JWT secret unavailable", zap.Error(err))
		}
	}

	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Redis is preferred; fall back to the in-process cache so a missing
	// Redis only costs extra token lookups, not availability.
	var userCache ports.Cache
	if redisCache, err := cache.NewRedisCache(cfg.Redis.URL, logger); err == nil {
		userCache = redisCache
	} else {
		logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		userCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer userCache.Close()

	hub := wsAdapter.NewHub(logger)
	go hub.Run()

	// With a broker configured, notification payloads are relayed through it
	// so every instance's hub sees every publish.
	var publisher ports.RealtimePublisher = hub
	if cfg.Queue.Driver != "" {
		mq, err := queue.New(cfg.Queue.Driver, cfg.Queue.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to message queue", zap.Error(err))
		}
		defer mq.Close()

		relay, err := wsAdapter.NewRelay(mq, hub, logger)
		if err != nil {
			logger.Fatal("Failed to start notification relay", zap.Error(err))
		}
		publisher = relay
	}

	userRepo := postgres.NewUserRepository(db, logger)
	complaintRepo := postgres.NewComplaintRepository(db, logger)
	workerRepo := postgres.NewWorkerRepository(db, logger)
	notificationRepo := postgres.NewNotificationRepository(db, logger)

	authService := auth.NewService(userRepo, userCache, cfg.JWT.Secret, logger)
	dispatcher := notification.NewDispatcher(notificationRepo, userRepo, complaintRepo, publisher, logger)
	complaintService := complaint.NewService(complaintRepo, userRepo, dispatcher, logger)
	workerService := worker.NewService(workerRepo, complaintRepo, dispatcher, logger)
	userService := user.NewService(userRepo, workerRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := sqlDB.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Database not ready")
		}
		if err := userCache.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Cache not ready")
		}
		return c.SendString("Ready")
	})

	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	api := app.Group("/api")

	authHandler := handlers.NewAuthHandler(authService, logger)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/refresh", authHandler.RefreshToken)

	protected := api.Group("", middleware.AuthRequired(authService))
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	complaintHandler := handlers.NewComplaintHandler(complaintService, logger)
	protected.Get("/complaints/", complaintHandler.List)
	protected.Get("/complaints/user/", complaintHandler.ListMine)
	protected.Get("/complaints/:id/status/", complaintHandler.StatusHistory)
	protected.Post("/complaints-create/", complaintHandler.Create)
	protected.Post("/complaints/:id/status/",
		middleware.RequireRole(domain.RoleAdmin, domain.RoleWorker),
		complaintHandler.UpdateStatus)

	notificationHandler := handlers.NewNotificationHandler(dispatcher, logger)
	protected.Get("/notifications/user/", notificationHandler.ListMine)
	protected.Get("/notifications/unread/", notificationHandler.ListUnread)
	protected.Get("/notifications/time/:days/", notificationHandler.ListByTime)
	protected.Post("/notifications/mark-read/", notificationHandler.MarkRead)
	protected.Post("/notifications/mark-read/:id/", notificationHandler.MarkRead)

	userHandler := handlers.NewUserHandler(userService, logger)
	protected.Get("/users/list-all-users/", userHandler.ListAll)
	protected.Post("/users/add-worker-or-user/", adminOnly, userHandler.AddWorkerOrUser)
	protected.Get("/users/me/", userHandler.Me)

	workerHandler := handlers.NewWorkerHandler(workerService, logger)
	protected.Get("/workers/", workerHandler.List)
	protected.Get("/workers/tasks/", workerHandler.ListTasks)
	protected.Get("/workers/tasks/worker/:id/", workerHandler.ListTasksByWorker)
	protected.Post("/workers/tasks/assign/", adminOnly, workerHandler.AssignTask)
	protected.Post("/workers/", adminOnly, workerHandler.Create)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/notifications", websocket.New(wsAdapter.NotificationsHandler(hub, authService, logger)))

	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
