package accounttree

import (
	"strings"

	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// MatchesTerm reports whether the record's name, code or type contains term,
// ignoring case. The term is expected to be trimmed already.
func MatchesTerm(r domain.AccountRecord, term string) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.AccountName), needle) ||
		strings.Contains(strings.ToLower(r.AccountCode), needle) ||
		strings.Contains(strings.ToLower(string(r.AccountType)), needle)
}

// FilterTree returns the part of tree that matches term. A node is kept when it
// matches or when any of its descendants does; kept nodes carry only their
// kept children. A blank term returns tree itself.
// The input is never modified: every kept node is a shallow copy with a new
// Children slice.
func FilterTree(tree []*domain.AccountNode, term string) []*domain.AccountNode {
	needle := strings.TrimSpace(term)
	if needle == "" {
		return tree
	}
	return filterNodes(tree, needle)
}

func filterNodes(nodes []*domain.AccountNode, needle string) []*domain.AccountNode {
	kept := []*domain.AccountNode{}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		children := filterNodes(n.Children, needle)
		if !MatchesTerm(n.AccountRecord, needle) && len(children) == 0 {
			continue
		}
		clone := *n
		clone.Children = children
		kept = append(kept, &clone)
	}
	return kept
}

// MatchingIDs returns the ids of the nodes in tree that match term directly,
// in depth-first order. A blank term matches nothing.
func MatchingIDs(tree []*domain.AccountNode, term string) []int {
	needle := strings.TrimSpace(term)
	if needle == "" {
		return nil
	}
	var ids []int
	for _, root := range tree {
		root.Walk(func(n *domain.AccountNode) bool {
			if MatchesTerm(n.AccountRecord, needle) {
				ids = append(ids, n.AccountID)
			}
			return true
		})
	}
	return ids
}

// AncestorIDs returns the ids of every node that has at least one of targets
// strictly below it.
func AncestorIDs(tree []*domain.AccountNode, targets []int) []int {
	want := make(map[int]bool, len(targets))
	for _, id := range targets {
		want[id] = true
	}
	var ids []int
	var visit func(n *domain.AccountNode) bool
	visit = func(n *domain.AccountNode) bool {
		below := false
		for _, child := range n.Children {
			if visit(child) {
				below = true
			}
		}
		if below {
			ids = append(ids, n.AccountID)
		}
		return below || want[n.AccountID]
	}
	for _, root := range tree {
		visit(root)
	}
	return ids
}
