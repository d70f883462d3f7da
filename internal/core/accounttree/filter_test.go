package accounttree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamajaved138/erp-frontend/internal/core/accounttree"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

func deeperRecords() []domain.AccountRecord {
	return accounttree.SortRecords([]domain.AccountRecord{
		{AccountID: 1, AccountCode: "1000", AccountName: "Assets", AccountType: domain.Asset},
		{AccountID: 2, AccountCode: "1010", AccountName: "Current Assets", AccountType: domain.Asset, ParentAccountID: 1},
		{AccountID: 3, AccountCode: "1011", AccountName: "Petty Cash", AccountType: domain.Asset, ParentAccountID: 2},
		{AccountID: 4, AccountCode: "1012", AccountName: "Receivables", AccountType: domain.Asset, ParentAccountID: 2},
		{AccountID: 5, AccountCode: "2000", AccountName: "Liabilities", AccountType: domain.Liability},
		{AccountID: 6, AccountCode: "2010", AccountName: "Payables", AccountType: domain.Liability, ParentAccountID: 5},
		{AccountID: 7, AccountCode: "5000", AccountName: "Expenses", AccountType: domain.Expense},
	})
}

func TestFilterTree_BlankTermIsIdentity(t *testing.T) {
	tree := accounttree.BuildTree(deeperRecords())

	for _, term := range []string{"", "   ", "\t"} {
		filtered := accounttree.FilterTree(tree, term)
		assert.Equal(t, tree, filtered)
		require.Len(t, filtered, len(tree))
		assert.Same(t, tree[0], filtered[0])
	}

	assert.Nil(t, accounttree.FilterTree(nil, ""))
}

func TestFilterTree_CashKeepsAncestors(t *testing.T) {
	tree := accounttree.BuildTree(accounttree.SortRecords(sampleRecords()))

	filtered := accounttree.FilterTree(tree, "cash")

	require.Len(t, filtered, 1)
	assert.Equal(t, "Assets", filtered[0].AccountName)
	require.Len(t, filtered[0].Children, 1)
	assert.Equal(t, "Cash", filtered[0].Children[0].AccountName)
}

func TestFilterTree_DeepMatchKeepsWholePath(t *testing.T) {
	tree := accounttree.BuildTree(deeperRecords())

	filtered := accounttree.FilterTree(tree, "PETTY")

	require.Len(t, filtered, 1)
	assets := filtered[0]
	assert.Equal(t, 1, assets.AccountID)
	require.Len(t, assets.Children, 1)
	current := assets.Children[0]
	assert.Equal(t, 2, current.AccountID)
	require.Len(t, current.Children, 1, "non-matching sibling Receivables is pruned")
	assert.Equal(t, 3, current.Children[0].AccountID)
	assert.Equal(t, 2, current.Children[0].LevelNo)
}

func TestFilterTree_MatchFields(t *testing.T) {
	tree := accounttree.BuildTree(deeperRecords())

	tests := []struct {
		name    string
		term    string
		wantIDs []int
	}{
		{name: "by code", term: "201", wantIDs: []int{5, 6}},
		{name: "by type", term: "expense", wantIDs: []int{7}},
		{name: "by partial type", term: "liab", wantIDs: []int{5, 6}},
		{name: "surrounding whitespace ignored", term: "  payables ", wantIDs: []int{5, 6}},
		{name: "no match", term: "zzz", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := accounttree.FilterTree(tree, tt.term)
			var ids []int
			for _, root := range filtered {
				root.Walk(func(n *domain.AccountNode) bool {
					ids = append(ids, n.AccountID)
					return true
				})
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterTree_MatchingParentKeepsOnlyMatchingChildren(t *testing.T) {
	tree := accounttree.BuildTree(deeperRecords())

	// "assets" matches ids 1 and 2 by name; 3 and 4 match neither.
	filtered := accounttree.FilterTree(tree, "assets")

	require.Len(t, filtered, 1)
	require.Len(t, filtered[0].Children, 1)
	assert.Empty(t, filtered[0].Children[0].Children)
}

func TestFilterTree_DoesNotMutateInput(t *testing.T) {
	tree := accounttree.BuildTree(deeperRecords())
	before := domain.CountNodes(tree)

	_ = accounttree.FilterTree(tree, "petty")

	assert.Equal(t, before, domain.CountNodes(tree))
	assert.Len(t, tree[0].Children[0].Children, 2)
}

func TestMatchingIDsAndAncestors(t *testing.T) {
	tree := accounttree.BuildTree(deeperRecords())

	hits := accounttree.MatchingIDs(tree, "cash")
	assert.Equal(t, []int{3}, hits)
	assert.ElementsMatch(t, []int{1, 2}, accounttree.AncestorIDs(tree, hits))

	assert.Nil(t, accounttree.MatchingIDs(tree, " "))
	assert.Empty(t, accounttree.AncestorIDs(tree, []int{1, 5}))
}
