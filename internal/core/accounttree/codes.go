package accounttree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// rootCodeStep is the spacing between top-level account codes.
const rootCodeStep = 1000

// NextAccountCode returns the code for a new account under parentID.
// Top-level accounts get the next free multiple of 1000. Children get the
// parent's code plus a two-digit sequence ("1000.01", "1000.01.03"), which keeps
// a subtree contiguous under lexicographic ordering.
func NextAccountCode(records []domain.AccountRecord, parentID int) (string, error) {
	if parentID == 0 {
		highest := 0
		for _, r := range records {
			if !r.IsTopLevel() {
				continue
			}
			if n, err := strconv.Atoi(r.AccountCode); err == nil && n > highest {
				highest = n
			}
		}
		return strconv.Itoa((highest/rootCodeStep + 1) * rootCodeStep), nil
	}

	parent, ok := findRecord(records, parentID)
	if !ok {
		return "", fmt.Errorf("%w: account %d does not exist", apperrors.ErrInvalidParentReference, parentID)
	}
	prefix := parent.AccountCode + "."
	highest := 0
	for _, r := range records {
		if r.ParentAccountID != parentID || !strings.HasPrefix(r.AccountCode, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(r.AccountCode, prefix)); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, highest+1), nil
}
