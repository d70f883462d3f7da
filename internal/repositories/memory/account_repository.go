// Package memory provides an in-process account store for the API stub and tests.
package memory

import (
	"context"
	"sync"

	"github.com/usamajaved138/erp-frontend/internal/core/accounttree"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
)

// AccountRepository keeps accounts in insertion order behind a mutex.
type AccountRepository struct {
	mu      sync.Mutex
	records []domain.AccountRecord
	nextID  int
}

// NewAccountRepository creates a store pre-populated with seed. Ids of new
// accounts continue after the highest seeded id.
func NewAccountRepository(seed ...domain.AccountRecord) *AccountRepository {
	r := &AccountRepository{nextID: 1}
	for _, rec := range seed {
		r.records = append(r.records, rec)
		if rec.AccountID >= r.nextID {
			r.nextID = rec.AccountID + 1
		}
	}
	return r
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) FetchAccounts(ctx context.Context) ([]domain.AccountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AccountRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *AccountRepository) CreateAccount(ctx context.Context, draft domain.AccountDraft) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := accounttree.PrepareCreate(r.records, draft, r.nextID)
	if err != nil {
		return 0, err
	}
	r.records = append(r.records, record)
	r.nextID++
	return record.AccountID, nil
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, draft domain.AccountDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated, err := accounttree.PrepareUpdate(r.records, draft)
	if err != nil {
		return err
	}
	for i := range r.records {
		if r.records[i].AccountID == updated.AccountID {
			r.records[i] = updated
			break
		}
	}
	return nil
}

func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := accounttree.CheckDelete(r.records, accountID); err != nil {
		return err
	}
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.AccountID != accountID {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}
