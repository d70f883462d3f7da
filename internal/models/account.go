package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Account is one row of the accounts table used by the API stub.
type Account struct {
	AccountID       int64           `db:"account_id"`
	AccountCode     string          `db:"account_code"`
	AccountName     string          `db:"account_name"`
	AccountType     string          `db:"account_type"`
	ParentAccountID sql.NullInt64   `db:"parent_account_id"` // NULL for top-level accounts
	Balance         decimal.Decimal `db:"balance"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}
