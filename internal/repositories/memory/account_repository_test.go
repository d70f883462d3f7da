package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	"github.com/usamajaved138/erp-frontend/internal/repositories/memory"
)

func TestAccountRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository(
		domain.AccountRecord{AccountID: 4, AccountCode: "1000", AccountName: "Assets", AccountType: domain.Asset},
	)

	id, err := repo.CreateAccount(ctx, domain.AccountDraft{AccountName: "Cash", ParentAccountID: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	records, err := repo.FetchAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1000.01", records[1].AccountCode)
	assert.Equal(t, domain.Asset, records[1].AccountType)

	// The returned slice is a copy.
	records[0].AccountName = "changed"
	again, err := repo.FetchAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Assets", again[0].AccountName)

	require.NoError(t, repo.UpdateAccount(ctx, domain.AccountDraft{AccountID: 5, AccountName: "Cash on hand", ParentAccountID: 4}))
	assert.ErrorIs(t, repo.DeleteAccount(ctx, 4), apperrors.ErrValidation)
	require.NoError(t, repo.DeleteAccount(ctx, 5))
	require.NoError(t, repo.DeleteAccount(ctx, 4))

	records, err = repo.FetchAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAccountRepository_Rejections(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	_, err := repo.CreateAccount(ctx, domain.AccountDraft{AccountName: "Orphan", ParentAccountID: 3})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParentReference)

	assert.ErrorIs(t, repo.UpdateAccount(ctx, domain.AccountDraft{AccountID: 1, AccountName: "X"}), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteAccount(ctx, 1), apperrors.ErrNotFound)
}

func TestNewRepositoryProvider_SeedsDefaultChart(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepositoryProvider().AccountRepo

	records, err := repo.FetchAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(domain.AccountTypes))
	for i, rec := range records {
		assert.Equal(t, domain.AccountTypes[i], rec.AccountType)
		assert.True(t, rec.IsTopLevel())
	}

	id, err := repo.CreateAccount(ctx, domain.AccountDraft{AccountName: "Other Income", AccountType: domain.Revenue})
	require.NoError(t, err)
	assert.Equal(t, 6, id)
}
