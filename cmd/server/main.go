package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/leadforge/backend/internal/adapter/http"
	"github.com/leadforge/backend/internal/adapter/http/handler"
	"github.com/leadforge/backend/internal/adapter/http/middleware"
	postgresRepo "github.com/leadforge/backend/internal/adapter/repository/postgres"
	redisRepo "github.com/leadforge/backend/internal/adapter/repository/redis"
	"github.com/leadforge/backend/internal/infrastructure/config"
	"github.com/leadforge/backend/internal/infrastructure/logger"
	"github.com/leadforge/backend/internal/infrastructure/metrics"
	"github.com/leadforge/backend/internal/infrastructure/postgres"
	"github.com/leadforge/backend/internal/infrastructure/redis"
	"github.com/leadforge/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations
	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	importRepo := postgresRepo.NewImportJobRepository(pool)
	dealRepo := postgresRepo.NewDealRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	notifier := redisRepo.NewNotifier(redisClient, cfg.EventsChannel)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, retrier, idGen, notifier, appMetrics)
	dealUC := usecase.NewDealUseCase(dealRepo, idGen, notifier, appMetrics)
	importUC := usecase.NewImportUseCase(ledgerUC, dealUC, importRepo, idGen, notifier, appMetrics)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	importHandler := handler.NewImportHandler(importUC, appLogger)
	dealHandler := handler.NewDealHandler(dealUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		LedgerHandler:    ledgerHandler,
		ImportHandler:    importHandler,
		DealHandler:      dealHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      middleware.NewRateLimiter(100, 200),
	})

	loggingMiddleware := middleware.NewLoggingMiddleware(appLogger)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      loggingMiddleware.Wrap(router),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
