package services

import (
	"context"

	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// ChartViewReaderSvc defines the read side of one chart-of-accounts view.
type ChartViewReaderSvc interface {
	// ID returns the view identifier.
	ID() string

	// Snapshot returns the filtered tree and its visible rows.
	Snapshot() domain.ChartSnapshot

	// Notifications drains the pending toasts.
	Notifications() []domain.Notification
}

// ChartViewStateSvc defines the local, non-network state changes of a view.
type ChartViewStateSvc interface {
	// SetSearch changes the search term and expands the path to every match.
	SetSearch(term string)

	// Toggle flips the expansion of one node and returns its new state.
	Toggle(accountID int) (bool, error)

	// ExpandAll opens every node.
	ExpandAll()

	// CollapseAll closes every node.
	CollapseAll()

	// ExpandToLevel opens nodes above level and closes the rest.
	ExpandToLevel(level int)
}

// ChartViewMutationSvc defines the operations that round-trip to the remote API.
type ChartViewMutationSvc interface {
	// Load re-fetches the account list and rebuilds the tree.
	Load(ctx context.Context) error

	// HandleAddAccount returns a create form bound to parentID (0 for a root account).
	HandleAddAccount(parentID int) (domain.AccountForm, error)

	// HandleEditAccount returns an edit form pre-filled from the account.
	HandleEditAccount(accountID int) (domain.AccountForm, error)

	// SubmitCreate creates an account and reloads. It returns the new account id.
	SubmitCreate(ctx context.Context, draft domain.AccountDraft) (int, error)

	// SubmitUpdate updates an account and reloads.
	SubmitUpdate(ctx context.Context, draft domain.AccountDraft) error

	// DeleteAccount deletes a leaf account and reloads.
	DeleteAccount(ctx context.Context, accountID int) error
}

// ChartViewSvc combines all chart view interfaces
type ChartViewSvc interface {
	ChartViewReaderSvc
	ChartViewStateSvc
	ChartViewMutationSvc

	// Close tears the view down; results of in-flight loads are discarded.
	Close()
}

// ViewRegistrySvc manages the set of open chart views.
type ViewRegistrySvc interface {
	// Open creates a view and performs its first load. The view is returned even
	// when the load fails; the failure is queued as a notification.
	Open(ctx context.Context) (ChartViewSvc, error)

	// Get returns an open view, or apperrors.ErrNotFound.
	Get(viewID string) (ChartViewSvc, error)

	// Close tears down and forgets a view.
	Close(viewID string) error
}
