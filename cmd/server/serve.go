package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	config "github.com/avatarctic/finance-tracker/configs"
	"github.com/avatarctic/finance-tracker/internal/application/readthrough"
	"github.com/avatarctic/finance-tracker/internal/application/services"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/db"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/health"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/redis"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/repositories"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.Log)
	logger.Info("Starting finance tracker...")

	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	logger.Info("Connected to database successfully")

	if !cmd.Bool("skip-migrate") {
		if err := database.Migrate(cmd.String("migrations")); err != nil {
			logger.WithError(err).Warn("Failed to run migrations")
		}
	}

	// shared client for the token blacklist, rate limiter and health checks
	redisClient, err := redis.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis successfully")

	// the result cache owns its own connection and closes it on shutdown
	store, err := redis.OpenStore(ctx, &cfg.Redis, cfg.Cache.KeyPrefix, logger)
	if err != nil {
		return fmt.Errorf("failed to open cache store: %w", err)
	}
	cacheOpts := []readthrough.Option{
		readthrough.WithTTL(cfg.Cache.TTL),
		readthrough.WithLogger(logger),
		readthrough.WithMetrics(readthrough.NewMetrics(prometheus.DefaultRegisterer)),
	}
	if cfg.Cache.SingleFlight {
		cacheOpts = append(cacheOpts, readthrough.WithSingleFlight())
	}
	resultCache := readthrough.New(store, cacheOpts...)
	defer func() {
		if err := resultCache.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close cache store")
		}
	}()

	userRepo := repositories.NewUserRepository(database, logger)
	expenseRepo := repositories.NewExpenseRepository(database, logger)
	budgetRepo := repositories.NewBudgetRepository(database, logger)
	blacklist := repositories.NewTokenBlacklistRepository(redisClient, logger)
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)

	authService := services.NewAuthService(userRepo, blacklist, &cfg.JWT, logger)
	expenseService := services.NewExpenseService(expenseRepo, resultCache, logger)
	budgetService := services.NewBudgetService(budgetRepo, logger)
	reportService := services.NewReportService(expenseRepo, budgetRepo, resultCache, time.Now, logger)
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, &services.RateLimiterConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}, logger)

	server := httpserver.NewServer(&httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
		BodyLimit:    cfg.Server.BodyLimit,
	}, logger, httpserver.ServerDeps{
		AuthService:        authService,
		ExpenseService:     expenseService,
		BudgetService:      budgetService,
		ReportService:      reportService,
		RateLimiterService: rateLimiterService,
		HealthCheckers: []ports.HealthChecker{
			health.NewDBHealthChecker(database),
			health.NewRedisHealthChecker(redisClient),
			health.NewCacheHealthChecker(store),
		},
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	logger.Infof("Server started on %s", server.Addr())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}
