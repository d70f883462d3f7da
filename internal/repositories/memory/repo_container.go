package memory

import (
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
)

// DefaultChart is the set of top-level accounts every new store starts with.
func DefaultChart() []domain.AccountRecord {
	return []domain.AccountRecord{
		{AccountID: 1, AccountCode: "1000", AccountName: "Assets", AccountType: domain.Asset},
		{AccountID: 2, AccountCode: "2000", AccountName: "Liabilities", AccountType: domain.Liability},
		{AccountID: 3, AccountCode: "3000", AccountName: "Equity", AccountType: domain.Equity},
		{AccountID: 4, AccountCode: "4000", AccountName: "Revenue", AccountType: domain.Revenue},
		{AccountID: 5, AccountCode: "5000", AccountName: "Expenses", AccountType: domain.Expense},
	}
}

// NewRepositoryProvider wires an in-memory store seeded with DefaultChart.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewAccountRepository(DefaultChart()...),
	}
}
