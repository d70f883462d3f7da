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
	"github.com/usamajaved138/erp-frontend/internal/adapters/rpc"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
	"github.com/usamajaved138/erp-frontend/internal/core/services"
	"github.com/usamajaved138/erp-frontend/internal/handlers"
	"github.com/usamajaved138/erp-frontend/internal/middleware"
	"github.com/usamajaved138/erp-frontend/internal/platform/config"
)

// @title Chart of Accounts Console API
// @version 1.0
// @description View server for the chart-of-accounts tree: open a view, expand, search and edit accounts.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	accountClient := rpc.NewAccountClient(cfg.CoaAPIURL,
		rpc.WithTimeout(cfg.CoaAPITimeout),
		rpc.WithClientLogger(logger),
	)
	repos := portsrepo.RepositoryProvider{AccountRepo: accountClient}
	serviceContainer := services.NewServiceContainer(cfg, repos, logger)

	go serviceContainer.Sweeper.Run(sigCtx, cfg.ViewSweepInterval)
	defer serviceContainer.Sweeper.CloseAll()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()
	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("coa_api_url", cfg.CoaAPIURL),
		slog.Duration("view_idle_ttl", cfg.ViewIdleTTL))

	select {
	case <-sigCtx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", slog.String("error", err.Error()))
		}
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			serviceContainer.Sweeper.CloseAll()
			os.Exit(1)
		}
	}
}
