package accounttree

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// The functions below are the write rules of an account store: they check a
// mutation against the full current record set and return the record to persist.

// PrepareCreate validates draft against records and returns the new record with
// id accountID, its resolved type and a freshly assigned code.
func PrepareCreate(records []domain.AccountRecord, draft domain.AccountDraft, accountID int) (domain.AccountRecord, error) {
	name := strings.TrimSpace(draft.AccountName)
	if name == "" {
		return domain.AccountRecord{}, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	accountType, err := ResolveAccountType(domain.NormalizeAccountType(string(draft.AccountType)), draft.ParentAccountID, records)
	if err != nil {
		return domain.AccountRecord{}, err
	}
	if !accountType.IsValid() {
		return domain.AccountRecord{}, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, accountType)
	}
	code, err := NextAccountCode(records, draft.ParentAccountID)
	if err != nil {
		return domain.AccountRecord{}, err
	}
	return domain.AccountRecord{
		AccountID:       accountID,
		AccountCode:     code,
		AccountName:     name,
		AccountType:     accountType,
		ParentAccountID: draft.ParentAccountID,
		Balance:         decimal.Zero,
	}, nil
}

// PrepareUpdate validates draft against records and returns the updated record.
// The balance is never changed by an update; the code only when one is given.
func PrepareUpdate(records []domain.AccountRecord, draft domain.AccountDraft) (domain.AccountRecord, error) {
	current, ok := findRecord(records, draft.AccountID)
	if !ok {
		return domain.AccountRecord{}, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, draft.AccountID)
	}
	name := strings.TrimSpace(draft.AccountName)
	if name == "" {
		return domain.AccountRecord{}, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if err := ValidateParentChoice(draft.AccountID, draft.ParentAccountID, records); err != nil {
		return domain.AccountRecord{}, err
	}

	chosen := domain.NormalizeAccountType(string(draft.AccountType))
	if chosen == "" {
		chosen = current.AccountType
	}
	accountType, err := ResolveAccountType(chosen, draft.ParentAccountID, records)
	if err != nil {
		return domain.AccountRecord{}, err
	}
	if !accountType.IsValid() {
		return domain.AccountRecord{}, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, accountType)
	}
	if accountType != current.AccountType && hasChildren(records, current.AccountID) {
		return domain.AccountRecord{}, fmt.Errorf("%w: the type of an account with sub-accounts cannot change", apperrors.ErrValidation)
	}

	updated := current
	updated.AccountName = name
	updated.AccountType = accountType
	updated.ParentAccountID = draft.ParentAccountID
	if code := strings.TrimSpace(draft.AccountCode); code != "" {
		for _, r := range records {
			if r.AccountID != current.AccountID && r.AccountCode == code {
				return domain.AccountRecord{}, fmt.Errorf("%w: account code %s is already in use", apperrors.ErrValidation, code)
			}
		}
		updated.AccountCode = code
	}
	return updated, nil
}

// CheckDelete reports whether accountID exists and has no sub-accounts.
func CheckDelete(records []domain.AccountRecord, accountID int) error {
	current, ok := findRecord(records, accountID)
	if !ok {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	if hasChildren(records, accountID) {
		return fmt.Errorf("%w: account %q still has sub-accounts", apperrors.ErrValidation, current.AccountName)
	}
	return nil
}

func hasChildren(records []domain.AccountRecord, accountID int) bool {
	for _, r := range records {
		if r.ParentAccountID == accountID && r.AccountID != accountID {
			return true
		}
	}
	return false
}
