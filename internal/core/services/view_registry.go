package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
	portssvc "github.com/usamajaved138/erp-frontend/internal/core/ports/services"
)

// ViewRegistry keeps the open chart views of the console keyed by view id.
// Views that have not been touched for longer than the idle TTL are closed by Sweep.
type ViewRegistry struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	idleTTL     time.Duration
	now         func() time.Time

	mu    sync.RWMutex
	views map[string]*chartView
}

// ViewRegistryOption is a functional option for configuring the registry
type ViewRegistryOption func(*ViewRegistry)

// WithRegistryLogger sets the fallback logger, also handed to every view.
func WithRegistryLogger(logger *slog.Logger) ViewRegistryOption {
	return func(r *ViewRegistry) {
		r.Logger = logger
	}
}

// WithIdleTTL sets how long a view may stay untouched. Zero disables sweeping.
func WithIdleTTL(ttl time.Duration) ViewRegistryOption {
	return func(r *ViewRegistry) {
		r.idleTTL = ttl
	}
}

// WithRegistryClock overrides time.Now for the registry and its views.
func WithRegistryClock(now func() time.Time) ViewRegistryOption {
	return func(r *ViewRegistry) {
		r.now = now
	}
}

// NewViewRegistry creates an empty registry whose views read and write through repo.
func NewViewRegistry(repo portsrepo.AccountRepositoryFacade, options ...ViewRegistryOption) *ViewRegistry {
	r := &ViewRegistry{
		accountRepo: repo,
		now:         time.Now,
		views:       make(map[string]*chartView),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *ViewRegistry) Open(ctx context.Context) (portssvc.ChartViewSvc, error) {
	view := newChartView(r.accountRepo,
		WithChartViewLogger(r.Logger),
		WithChartViewClock(r.now),
	)

	r.mu.Lock()
	r.views[view.ID()] = view
	r.mu.Unlock()

	r.LogInfo(ctx, "Chart view opened", slog.String("view_id", view.ID()))
	if err := view.Load(ctx); err != nil {
		return view, fmt.Errorf("initial load of view %s: %w", view.ID(), err)
	}
	return view, nil
}

func (r *ViewRegistry) Get(viewID string) (portssvc.ChartViewSvc, error) {
	r.mu.RLock()
	view, ok := r.views[viewID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: view %s", apperrors.ErrNotFound, viewID)
	}
	return view, nil
}

func (r *ViewRegistry) Close(viewID string) error {
	r.mu.Lock()
	view, ok := r.views[viewID]
	delete(r.views, viewID)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: view %s", apperrors.ErrNotFound, viewID)
	}
	view.Close()
	return nil
}

// Len returns the number of open views.
func (r *ViewRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Sweep closes every view idle for longer than the TTL and returns how many it closed.
func (r *ViewRegistry) Sweep(ctx context.Context) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*chartView
	for id, view := range r.views {
		if view.idleSince().Before(cutoff) {
			stale = append(stale, view)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, view := range stale {
		view.Close()
		r.LogInfo(ctx, "Closed idle chart view", slog.String("view_id", view.ID()))
	}
	return len(stale)
}

// Run sweeps idle views every interval until ctx is done.
func (r *ViewRegistry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// CloseAll closes every open view, used on shutdown.
func (r *ViewRegistry) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*chartView)
	r.mu.Unlock()
	for _, view := range views {
		view.Close()
	}
}
