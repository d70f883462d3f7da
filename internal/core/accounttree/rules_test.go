package accounttree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/accounttree"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

func storeRecords() []domain.AccountRecord {
	return []domain.AccountRecord{
		{AccountID: 1, AccountCode: "1000", AccountName: "Assets", AccountType: domain.Asset},
		{AccountID: 2, AccountCode: "1000.01", AccountName: "Cash", AccountType: domain.Asset, ParentAccountID: 1},
		{AccountID: 3, AccountCode: "2000", AccountName: "Liabilities", AccountType: domain.Liability},
	}
}

func TestPrepareCreate(t *testing.T) {
	t.Run("child inherits parent type and gets a code", func(t *testing.T) {
		rec, err := accounttree.PrepareCreate(storeRecords(), domain.AccountDraft{
			AccountName: " Bank ", AccountType: domain.Expense, ParentAccountID: 1,
		}, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, rec.AccountID)
		assert.Equal(t, "Bank", rec.AccountName)
		assert.Equal(t, domain.Asset, rec.AccountType)
		assert.Equal(t, "1000.02", rec.AccountCode)
		assert.True(t, rec.Balance.IsZero())
	})

	t.Run("root keeps chosen type", func(t *testing.T) {
		rec, err := accounttree.PrepareCreate(storeRecords(), domain.AccountDraft{
			AccountName: "Income", AccountType: "revenue",
		}, 11)
		require.NoError(t, err)
		assert.Equal(t, domain.Revenue, rec.AccountType)
		assert.Equal(t, "3000", rec.AccountCode)
	})

	tests := []struct {
		name    string
		draft   domain.AccountDraft
		wantErr error
	}{
		{"blank name", domain.AccountDraft{AccountName: " ", AccountType: domain.Asset}, apperrors.ErrValidation},
		{"root without type", domain.AccountDraft{AccountName: "X"}, apperrors.ErrValidation},
		{"missing parent", domain.AccountDraft{AccountName: "X", ParentAccountID: 9}, apperrors.ErrInvalidParentReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounttree.PrepareCreate(storeRecords(), tt.draft, 12)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPrepareUpdate(t *testing.T) {
	t.Run("move takes new parent type and keeps code", func(t *testing.T) {
		rec, err := accounttree.PrepareUpdate(storeRecords(), domain.AccountDraft{
			AccountID: 2, AccountName: "Cash", ParentAccountID: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.Liability, rec.AccountType)
		assert.Equal(t, 3, rec.ParentAccountID)
		assert.Equal(t, "1000.01", rec.AccountCode)
	})

	t.Run("explicit code", func(t *testing.T) {
		rec, err := accounttree.PrepareUpdate(storeRecords(), domain.AccountDraft{
			AccountID: 3, AccountCode: "2500", AccountName: "Debts", AccountType: domain.Liability,
		})
		require.NoError(t, err)
		assert.Equal(t, "2500", rec.AccountCode)
		assert.Equal(t, "Debts", rec.AccountName)
	})

	tests := []struct {
		name    string
		draft   domain.AccountDraft
		wantErr error
	}{
		{"unknown account", domain.AccountDraft{AccountID: 9, AccountName: "X"}, apperrors.ErrNotFound},
		{"under own child", domain.AccountDraft{AccountID: 1, AccountName: "X", ParentAccountID: 2}, apperrors.ErrValidation},
		{"type change with children", domain.AccountDraft{AccountID: 1, AccountName: "X", AccountType: domain.Equity}, apperrors.ErrValidation},
		{"duplicate code", domain.AccountDraft{AccountID: 3, AccountCode: "1000", AccountName: "X"}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounttree.PrepareUpdate(storeRecords(), tt.draft)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckDelete(t *testing.T) {
	assert.NoError(t, accounttree.CheckDelete(storeRecords(), 2))
	assert.ErrorIs(t, accounttree.CheckDelete(storeRecords(), 1), apperrors.ErrValidation)
	assert.ErrorIs(t, accounttree.CheckDelete(storeRecords(), 7), apperrors.ErrNotFound)
}
