package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/services"
)

// fakeClock is a settable time source safe for concurrent use.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestViewRegistry_OpenGetClose(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FetchAccounts", mock.Anything).Return(chartRecords(), nil)
	registry := services.NewViewRegistry(repo)

	view, err := registry.Open(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, view.ID())
	assert.Equal(t, 6, view.Snapshot().TotalAccounts)
	assert.Equal(t, 1, registry.Len())

	got, err := registry.Get(view.ID())
	require.NoError(t, err)
	assert.Same(t, view, got)

	other, err := registry.Open(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, view.ID(), other.ID())

	require.NoError(t, registry.Close(view.ID()))
	_, err = registry.Get(view.ID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, registry.Close(view.ID()), apperrors.ErrNotFound)
	assert.ErrorIs(t, view.Load(context.Background()), apperrors.ErrViewClosed)
	assert.Equal(t, 1, registry.Len())
}

func TestViewRegistry_OpenKeepsViewWhenLoadFails(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FetchAccounts", mock.Anything).
		Return(nil, apperrors.NewNetworkError("fetchAccounts", errors.New("refused")))
	registry := services.NewViewRegistry(repo)

	view, err := registry.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	require.NotNil(t, view)

	_, getErr := registry.Get(view.ID())
	assert.NoError(t, getErr)
	assert.Len(t, view.Notifications(), 1)
}

func TestViewRegistry_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	repo := new(MockAccountRepository)
	repo.On("FetchAccounts", mock.Anything).Return(chartRecords(), nil)
	registry := services.NewViewRegistry(repo,
		services.WithIdleTTL(10*time.Minute),
		services.WithRegistryClock(clock.Now),
	)

	idle, err := registry.Open(context.Background())
	require.NoError(t, err)
	clock.Advance(8 * time.Minute)
	busy, err := registry.Open(context.Background())
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	busy.Snapshot()

	assert.Equal(t, 1, registry.Sweep(context.Background()))
	_, err = registry.Get(idle.ID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = registry.Get(busy.ID())
	assert.NoError(t, err)
}

func TestViewRegistry_SweepDisabled(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FetchAccounts", mock.Anything).Return(chartRecords(), nil)
	registry := services.NewViewRegistry(repo)

	_, err := registry.Open(context.Background())
	require.NoError(t, err)
	assert.Zero(t, registry.Sweep(context.Background()))
	assert.Equal(t, 1, registry.Len())
}

func TestViewRegistry_RunStopsOnCancel(t *testing.T) {
	registry := services.NewViewRegistry(new(MockAccountRepository), services.WithIdleTTL(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		registry.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestViewRegistry_CloseAll(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FetchAccounts", mock.Anything).Return(chartRecords(), nil)
	registry := services.NewViewRegistry(repo)

	view, err := registry.Open(context.Background())
	require.NoError(t, err)
	registry.CloseAll()

	assert.Zero(t, registry.Len())
	assert.ErrorIs(t, view.Load(context.Background()), apperrors.ErrViewClosed)
}
