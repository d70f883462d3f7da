package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the PostgreSQL-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewPgxAccountRepository(dbPool),
	}
}
