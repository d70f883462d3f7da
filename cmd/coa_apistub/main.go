package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/usamajaved138/erp-frontend/internal/apistub"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
	"github.com/usamajaved138/erp-frontend/internal/middleware"
	"github.com/usamajaved138/erp-frontend/internal/platform/config"
	"github.com/usamajaved138/erp-frontend/internal/repositories/database/pgsql"
	"github.com/usamajaved138/erp-frontend/internal/repositories/memory"
	"github.com/usamajaved138/erp-frontend/pkg/database"
)

// Development stand-in for the remote accounts API. Accounts live in memory
// unless PGSQL_URL is set.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With(slog.String("service", "coa_apistub"))
	slog.SetDefault(logger)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	var repos portsrepo.RepositoryProvider
	if cfg.DatabaseURL == "" {
		logger.Info("PGSQL_URL not set, using in-memory account store")
		repos = memory.NewRepositoryProvider()
	} else {
		dbPool, err := database.NewPgxPool(sigCtx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool, logger)

		if err := database.RunMigrations(cfg.DatabaseURL, cfg.StubMigrationsPath, logger); err != nil {
			logger.Error("Failed to run migrations", slog.String("error", err.Error()))
			database.ClosePgxPool(dbPool, logger)
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	apistub.RegisterRoutes(r, apistub.NewAccountsHandler(repos.AccountRepo))

	srv := &http.Server{
		Addr:              ":" + cfg.StubPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()
	logger.Info("API stub starting", slog.String("port", cfg.StubPort))

	select {
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("API stub shutdown failed", slog.String("error", err.Error()))
		}
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API stub failed to run", slog.String("error", err.Error()))
		}
	}
}
