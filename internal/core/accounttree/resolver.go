package accounttree

import (
	"fmt"
	"strings"

	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// ResolveAccountType returns the type an account must be saved with.
// Top-level accounts (parentID 0) keep the type chosen by the operator; any
// other account takes its parent's stored type, which already equals the root
// type because the parent went through the same rule.
func ResolveAccountType(chosen domain.AccountType, parentID int, records []domain.AccountRecord) (domain.AccountType, error) {
	if parentID == 0 {
		return chosen, nil
	}
	parent, ok := findRecord(records, parentID)
	if !ok {
		return "", fmt.Errorf("%w: account %d is not in the loaded chart", apperrors.ErrInvalidParentReference, parentID)
	}
	return parent.AccountType, nil
}

// ValidateParentChoice checks that accountID may be placed under parentID:
// the parent must exist, and must be neither the account itself nor one of its
// descendants. accountID 0 means a new account, for which only existence is checked.
func ValidateParentChoice(accountID, parentID int, records []domain.AccountRecord) error {
	if parentID == 0 {
		return nil
	}
	if accountID != 0 && parentID == accountID {
		return fmt.Errorf("%w: an account cannot be its own parent", apperrors.ErrValidation)
	}
	if _, ok := findRecord(records, parentID); !ok {
		return fmt.Errorf("%w: account %d is not in the loaded chart", apperrors.ErrInvalidParentReference, parentID)
	}
	if accountID == 0 {
		return nil
	}

	parentOf := make(map[int]int, len(records))
	for _, r := range records {
		if _, seen := parentOf[r.AccountID]; !seen {
			parentOf[r.AccountID] = r.ParentAccountID
		}
	}
	visited := make(map[int]bool)
	for id := parentID; id != 0 && !visited[id]; id = parentOf[id] {
		if id == accountID {
			return fmt.Errorf("%w: an account cannot be moved under its own sub-account", apperrors.ErrValidation)
		}
		visited[id] = true
	}
	return nil
}

// ParentOptions lists the accounts of tree in display order as candidate
// parents, skipping excludeID and its whole subtree (0 excludes nothing).
func ParentOptions(tree []*domain.AccountNode, excludeID int) []domain.ParentOption {
	options := []domain.ParentOption{}
	for _, root := range tree {
		root.Walk(func(n *domain.AccountNode) bool {
			if excludeID != 0 && n.AccountID == excludeID {
				return false
			}
			options = append(options, domain.ParentOption{
				AccountID:   n.AccountID,
				AccountCode: n.AccountCode,
				AccountName: n.AccountName,
				AccountType: n.AccountType,
				LevelNo:     n.LevelNo,
				Label:       strings.Repeat("  ", n.LevelNo) + n.AccountCode + " - " + n.AccountName,
			})
			return true
		})
	}
	return options
}

// FindNode looks up an account id in a forest.
func FindNode(tree []*domain.AccountNode, accountID int) (*domain.AccountNode, bool) {
	var found *domain.AccountNode
	for _, root := range tree {
		root.Walk(func(n *domain.AccountNode) bool {
			if found != nil {
				return false
			}
			if n.AccountID == accountID {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}

func findRecord(records []domain.AccountRecord, accountID int) (domain.AccountRecord, bool) {
	for _, r := range records {
		if r.AccountID == accountID {
			return r, true
		}
	}
	return domain.AccountRecord{}, false
}
