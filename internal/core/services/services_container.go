package services

import (
	"log/slog"

	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
	portssvc "github.com/usamajaved138/erp-frontend/internal/core/ports/services"
	"github.com/usamajaved138/erp-frontend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	registry := NewViewRegistry(
		repos.AccountRepo,
		WithRegistryLogger(logger),
		WithIdleTTL(cfg.ViewIdleTTL),
	)

	return &portssvc.ServiceContainer{
		Views:   registry,
		Sweeper: registry,
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ChartViewSvc    = (*chartView)(nil)
	_ portssvc.ViewRegistrySvc = (*ViewRegistry)(nil)
	_ portssvc.ViewSweeperSvc  = (*ViewRegistry)(nil)
)
