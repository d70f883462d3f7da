// Package accounttree turns the flat chart-of-accounts list returned by the
// remote API into a forest of AccountNodes, and provides the pure functions the
// view controller runs over it: search filtering, parent type resolution and
// parent selection rules.
package accounttree

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// SortRecords returns a copy of records ordered by account code using plain
// lexicographic string comparison. Ties keep their input order.
// The builders never re-sort, so this order decides sibling order at every level.
func SortRecords(records []domain.AccountRecord) []domain.AccountRecord {
	sorted := make([]domain.AccountRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AccountCode < sorted[j].AccountCode
	})
	return sorted
}

// Forest is the result of BuildForest: the root nodes plus the data-integrity
// problems found while building them.
type Forest struct {
	Roots []*domain.AccountNode
	// Orphaned lists accounts whose parent_account_id does not resolve; they are shown as roots.
	Orphaned []int
	// CycleBreaks lists accounts promoted to root to cut a parent cycle.
	CycleBreaks []int
	// Duplicates lists account ids that appeared more than once; the first occurrence wins.
	Duplicates []int
}

// HasWarnings reports whether the build had to repair the input.
func (f Forest) HasWarnings() bool {
	return len(f.Orphaned) > 0 || len(f.CycleBreaks) > 0 || len(f.Duplicates) > 0
}

// BuildTree builds the account forest from a flat, pre-sorted record list.
// See BuildForest for how dangling and cyclic parent references are handled.
func BuildTree(records []domain.AccountRecord) []*domain.AccountNode {
	return BuildForest(records).Roots
}

// BuildForest indexes records by id once, groups children by parent id and walks
// the result from the roots. Every distinct account id ends up in the forest
// exactly once:
//   - a parent of 0 means top-level;
//   - a parent that is not in the list makes the record an orphaned root;
//   - records only reachable through a parent cycle are attached under the first
//     cycle member (in input order), which is promoted to root.
func BuildForest(records []domain.AccountRecord) Forest {
	var f Forest

	unique := make([]domain.AccountRecord, 0, len(records))
	position := make(map[int]int, len(records))
	for _, r := range records {
		if _, dup := position[r.AccountID]; dup {
			f.Duplicates = append(f.Duplicates, r.AccountID)
			continue
		}
		position[r.AccountID] = len(unique)
		unique = append(unique, r)
	}

	childrenOf := make(map[int][]int, len(unique))
	isRoot := make([]bool, len(unique))
	for i, r := range unique {
		switch {
		case r.IsTopLevel():
			isRoot[i] = true
		case r.ParentAccountID == r.AccountID:
			isRoot[i] = true
			f.CycleBreaks = append(f.CycleBreaks, r.AccountID)
		default:
			if _, ok := position[r.ParentAccountID]; !ok {
				isRoot[i] = true
				f.Orphaned = append(f.Orphaned, r.AccountID)
				continue
			}
			childrenOf[r.ParentAccountID] = append(childrenOf[r.ParentAccountID], i)
		}
	}

	// Mark everything reachable from the declared roots, then repeatedly promote
	// one member of each remaining cycle until every record is reachable.
	reached := make([]bool, len(unique))
	mark := func(start int) {
		stack := []int{start}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reached[i] {
				continue
			}
			reached[i] = true
			stack = append(stack, childrenOf[unique[i].AccountID]...)
		}
	}
	for i := range unique {
		if isRoot[i] {
			mark(i)
		}
	}
	for i := range unique {
		if reached[i] {
			continue
		}
		member := cycleMember(i, unique, position)
		isRoot[member] = true
		f.CycleBreaks = append(f.CycleBreaks, unique[member].AccountID)
		mark(member)
	}

	placed := make([]bool, len(unique))
	for i := range unique {
		if !isRoot[i] || placed[i] {
			continue
		}
		f.Roots = append(f.Roots, buildNode(i, 0, unique, childrenOf, placed))
	}
	if f.Roots == nil {
		f.Roots = []*domain.AccountNode{}
	}
	return f
}

// cycleMember follows parent links from start until a record repeats and
// returns the member of that cycle that comes first in input order.
func cycleMember(start int, unique []domain.AccountRecord, position map[int]int) int {
	seen := make(map[int]bool)
	i := start
	for !seen[i] {
		seen[i] = true
		i = position[unique[i].ParentAccountID]
	}
	first := i
	for j := position[unique[i].ParentAccountID]; j != i; j = position[unique[j].ParentAccountID] {
		if j < first {
			first = j
		}
	}
	return first
}

func buildNode(i, level int, unique []domain.AccountRecord, childrenOf map[int][]int, placed []bool) *domain.AccountNode {
	placed[i] = true
	node := &domain.AccountNode{
		AccountRecord:  unique[i],
		LevelNo:        level,
		SubtreeBalance: unique[i].Balance,
		Children:       []*domain.AccountNode{},
	}
	for _, c := range childrenOf[unique[i].AccountID] {
		// a placed child is the back-edge of a broken cycle
		if placed[c] {
			continue
		}
		child := buildNode(c, level+1, unique, childrenOf, placed)
		node.SubtreeBalance = node.SubtreeBalance.Add(child.SubtreeBalance)
		node.Children = append(node.Children, child)
	}
	return node
}

// BuildSubtree is the direct recursive form: it selects the records whose
// parent matches parentID (0 selects top-level records) and builds each one's
// children with level+1. Unlike BuildForest it does not surface orphaned
// records, which are simply never selected. A record already on the current
// path is skipped so cyclic input cannot recurse forever.
func BuildSubtree(records []domain.AccountRecord, parentID int, level int) []*domain.AccountNode {
	return buildSubtree(records, parentID, level, make(map[int]bool))
}

func buildSubtree(records []domain.AccountRecord, parentID int, level int, onPath map[int]bool) []*domain.AccountNode {
	nodes := []*domain.AccountNode{}
	for _, r := range records {
		if r.ParentAccountID != parentID || onPath[r.AccountID] {
			continue
		}
		onPath[r.AccountID] = true
		children := buildSubtree(records, r.AccountID, level+1, onPath)
		delete(onPath, r.AccountID)

		total := r.Balance
		for _, c := range children {
			total = total.Add(c.SubtreeBalance)
		}
		nodes = append(nodes, &domain.AccountNode{
			AccountRecord:  r,
			LevelNo:        level,
			SubtreeBalance: total,
			Children:       children,
		})
	}
	return nodes
}

// TotalBalance sums the subtree balances of a forest.
func TotalBalance(forest []*domain.AccountNode) decimal.Decimal {
	total := decimal.Zero
	for _, root := range forest {
		total = total.Add(root.SubtreeBalance)
	}
	return total
}
