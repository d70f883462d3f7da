package mapping

import (
	"database/sql"

	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	"github.com/usamajaved138/erp-frontend/internal/models"
)

// ToModelAccount converts a domain AccountRecord to a model Account
func ToModelAccount(d domain.AccountRecord) models.Account {
	return models.Account{
		AccountID:       int64(d.AccountID),
		AccountCode:     d.AccountCode,
		AccountName:     d.AccountName,
		AccountType:     string(d.AccountType),
		ParentAccountID: sql.NullInt64{Int64: int64(d.ParentAccountID), Valid: d.ParentAccountID != 0},
		Balance:         d.Balance,
	}
}

// ToDomainAccount converts a model Account to a domain AccountRecord
func ToDomainAccount(m models.Account) domain.AccountRecord {
	var parentID int
	if m.ParentAccountID.Valid {
		parentID = int(m.ParentAccountID.Int64)
	}
	return domain.AccountRecord{
		AccountID:       int(m.AccountID),
		AccountCode:     m.AccountCode,
		AccountName:     m.AccountName,
		AccountType:     domain.NormalizeAccountType(m.AccountType),
		ParentAccountID: parentID,
		Balance:         m.Balance,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain AccountRecords
func ToDomainAccountSlice(ms []models.Account) []domain.AccountRecord {
	ds := make([]domain.AccountRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
