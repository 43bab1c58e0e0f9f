package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	"github.com/SscSPs/vizinhomais/internal/core/services"
	"github.com/SscSPs/vizinhomais/internal/handlers"
	"github.com/SscSPs/vizinhomais/internal/middleware"
	"github.com/SscSPs/vizinhomais/internal/platform/config"
	"github.com/SscSPs/vizinhomais/internal/repositories/database/memory"
	"github.com/SscSPs/vizinhomais/internal/repositories/database/migrations"
	"github.com/SscSPs/vizinhomais/internal/repositories/database/pgsql"
	"github.com/SscSPs/vizinhomais/internal/repositories/database/sqlite"
	"github.com/SscSPs/vizinhomais/internal/utils"
	"github.com/SscSPs/vizinhomais/pkg/database"
	"github.com/gin-gonic/gin"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Vizinho+ Cashback API
// @version 1.0
// @description Cashback ledger for a network of neighbourhood stores.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, closeStorage, err := openStorage(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.DBDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	serviceContainer := services.NewServiceContainer(cfg, repos, posthogClient)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("Failed to register request validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deps := handlers.RouteDeps{Posthog: posthogClient}
	if cfg.SubmitRateLimit != "" {
		deps.SubmitLimiter, err = middleware.NewMemoryLimiter(cfg.SubmitRateLimit)
		if err != nil {
			logger.Error("Invalid SUBMIT_RATE_LIMIT", slog.String("value", cfg.SubmitRateLimit), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
}

// openStorage builds the repositories for the configured driver and returns a function releasing them.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, cfg.RedemptionLockTimeout, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("SQLite store opened", slog.String("path", cfg.SQLitePath))
		return store.Provider(), func() { _ = store.Close() }, nil

	case config.DriverMemory:
		store := memory.New(memory.WithLockTimeout(cfg.RedemptionLockTimeout))
		logger.Warn("Using in-memory store, the ledger will not survive a restart")
		return portsrepo.RepositoryProvider{MovementRepo: store, DirectoryRepo: store}, func() {}, nil
	}

	// --- Run Database Migrations ---
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if err := migrationDB.PingContext(ctx); err != nil {
		_ = migrationDB.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if err := migrations.UpPostgres(migrationDB, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool, cfg.RedemptionLockTimeout), func() { database.ClosePgxPool(dbPool, logger) }, nil
}
