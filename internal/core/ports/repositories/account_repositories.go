package repositories

import (
	"context"

	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// AccountReader defines read operations against the remote chart of accounts.
type AccountReader interface {
	// FetchAccounts retrieves the full flat account list. The remote API does not paginate.
	// A payload that is not a list yields an empty slice and apperrors.ErrMalformedResponse.
	FetchAccounts(ctx context.Context) ([]domain.AccountRecord, error)
}

// AccountWriter defines write operations against the remote chart of accounts.
type AccountWriter interface {
	// CreateAccount creates an account and returns the id assigned by the server.
	CreateAccount(ctx context.Context, draft domain.AccountDraft) (int, error)

	// UpdateAccount replaces an account's name, type, parent and optionally its code.
	UpdateAccount(ctx context.Context, draft domain.AccountDraft) error

	// DeleteAccount removes an account.
	DeleteAccount(ctx context.Context, accountID int) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
