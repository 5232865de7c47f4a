// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/angelamos/habitflow/internal/admin"
	"github.com/angelamos/habitflow/internal/analytics"
	"github.com/angelamos/habitflow/internal/auth"
	"github.com/angelamos/habitflow/internal/category"
	"github.com/angelamos/habitflow/internal/comment"
	"github.com/angelamos/habitflow/internal/config"
	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/habit"
	"github.com/angelamos/habitflow/internal/habitlog"
	"github.com/angelamos/habitflow/internal/health"
	"github.com/angelamos/habitflow/internal/middleware"
	"github.com/angelamos/habitflow/internal/server"
	"github.com/angelamos/habitflow/internal/tag"
	"github.com/angelamos/habitflow/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Missing .env is fine; the environment may already be populated.
	//nolint:errcheck
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT, cfg.Security.SecretKey)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized", "algorithm", "HS256")

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, redis)
	authHandler := auth.NewHandler(authSvc)

	categorySvc := category.NewService(db.DB, logger)
	categoryHandler := category.NewHandler(categorySvc)

	habitSvc := habit.NewService(db.DB, categorySvc, logger)
	habitHandler := habit.NewHandler(habitSvc)

	tagSvc := tag.NewService(db.DB, habitSvc, logger)
	tagHandler := tag.NewHandler(tagSvc)

	logRepo := habitlog.NewRepository(db.DB)
	logSvc := habitlog.NewService(logRepo, habitSvc, logger)
	logHandler := habitlog.NewHandler(logSvc)

	commentRepo := comment.NewRepository(db.DB)
	commentSvc := comment.NewService(commentRepo, habitSvc, logger)
	commentHandler := comment.NewHandler(commentSvc)

	analyticsSvc := analytics.NewService(habitSvc, logRepo, userSvc, logger)
	analyticsHandler := analytics.NewHandler(analyticsSvc)

	healthHandler := health.NewHandler(cfg.App.Version, db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DB:         db.DB,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(
		cfg.CORS.CSP,
		cfg.App.Environment == config.EnvProduction,
	))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	// The auth service layers blacklist and token-version checks on top
	// of signature verification.
	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterRoutes(r, authenticator)
		habitHandler.RegisterRoutes(r, authenticator)
		categoryHandler.RegisterRoutes(r, authenticator)
		tagHandler.RegisterRoutes(r, authenticator)
		logHandler.RegisterRoutes(r, authenticator)
		commentHandler.RegisterRoutes(r, authenticator)
		analyticsHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
