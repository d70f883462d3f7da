package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/accounttree"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
	"github.com/usamajaved138/erp-frontend/internal/models"
	"github.com/usamajaved138/erp-frontend/internal/utils/mapping"
)

// PgxAccountRepository stores the chart of accounts in PostgreSQL.
// Every write validates against the full table inside a transaction that
// holds a write lock on it, so concurrent writers see each other's codes.
type PgxAccountRepository struct {
	BaseRepository
}

// NewPgxAccountRepository creates a new repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements the repository ports
var (
	_ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)
	_ portsrepo.TransactionManager      = (*PgxAccountRepository)(nil)
)

const selectAccounts = `
	SELECT account_id, account_code, account_name, account_type, parent_account_id, balance, created_at, updated_at
	FROM accounts
	ORDER BY account_code, account_id;
`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listAccounts(ctx context.Context, q querier) ([]domain.AccountRecord, error) {
	rows, err := q.Query(ctx, selectAccounts)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(
			&m.AccountID,
			&m.AccountCode,
			&m.AccountName,
			&m.AccountType,
			&m.ParentAccountID,
			&m.Balance,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

func lockAccounts(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `LOCK TABLE accounts IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	return nil
}

// FetchAccounts returns every account ordered by code.
func (r *PgxAccountRepository) FetchAccounts(ctx context.Context) ([]domain.AccountRecord, error) {
	return listAccounts(ctx, r.Pool)
}

// CreateAccount inserts a new account with a generated code and returns its id.
func (r *PgxAccountRepository) CreateAccount(ctx context.Context, draft domain.AccountDraft) (int, error) {
	var accountID int
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockAccounts(ctx, tx); err != nil {
			return err
		}
		records, err := listAccounts(ctx, tx)
		if err != nil {
			return err
		}
		record, err := accounttree.PrepareCreate(records, draft, 0)
		if err != nil {
			return err
		}

		m := mapping.ToModelAccount(record)
		query := `
			INSERT INTO accounts (account_code, account_name, account_type, parent_account_id, balance)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING account_id;
		`
		var id int64
		if err := tx.QueryRow(ctx, query, m.AccountCode, m.AccountName, m.AccountType, m.ParentAccountID, m.Balance).Scan(&id); err != nil {
			return translateWriteError(err, "create account")
		}
		accountID = int(id)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return accountID, nil
}

// UpdateAccount changes name, type, parent and optionally code.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, draft domain.AccountDraft) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockAccounts(ctx, tx); err != nil {
			return err
		}
		records, err := listAccounts(ctx, tx)
		if err != nil {
			return err
		}
		updated, err := accounttree.PrepareUpdate(records, draft)
		if err != nil {
			return err
		}

		m := mapping.ToModelAccount(updated)
		query := `
			UPDATE accounts
			SET account_code = $2, account_name = $3, account_type = $4, parent_account_id = $5, updated_at = NOW()
			WHERE account_id = $1;
		`
		cmdTag, err := tx.Exec(ctx, query, m.AccountID, m.AccountCode, m.AccountName, m.AccountType, m.ParentAccountID)
		if err != nil {
			return translateWriteError(err, "update account")
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, draft.AccountID)
		}
		return nil
	})
}

// DeleteAccount removes a leaf account.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID int) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockAccounts(ctx, tx); err != nil {
			return err
		}
		records, err := listAccounts(ctx, tx)
		if err != nil {
			return err
		}
		if err := accounttree.CheckDelete(records, accountID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID); err != nil {
			return translateWriteError(err, "delete account")
		}
		return nil
	})
}

// translateWriteError maps constraint violations onto validation errors.
func translateWriteError(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s: account code already exists", apperrors.ErrValidation, action)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s: %s", apperrors.ErrInvalidParentReference, action, pgErr.Detail)
		case "23514": // check_violation
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, action, pgErr.Message)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
