package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists the valid account types in chart order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	for _, v := range AccountTypes {
		if t == v {
			return true
		}
	}
	return false
}

// NormalizeAccountType upper-cases and trims a raw type string.
func NormalizeAccountType(raw string) AccountType {
	return AccountType(strings.ToUpper(strings.TrimSpace(raw)))
}

// AccountRecord is one row of the chart of accounts as returned by the remote API.
// Records are replaced wholesale on every fetch and never patched locally.
type AccountRecord struct {
	AccountID       int             `json:"account_id"`
	AccountCode     string          `json:"account_code"`
	AccountName     string          `json:"account_name"`
	AccountType     AccountType     `json:"account_type"`
	ParentAccountID int             `json:"parent_account_id,omitempty"` // 0 means top-level
	Balance         decimal.Decimal `json:"balance"`
}

// IsTopLevel reports whether the record declares no parent.
// Null, absent and 0 are all decoded to 0 and mean "no parent".
func (r AccountRecord) IsTopLevel() bool {
	return r.ParentAccountID == 0
}

// AccountNode is the derived tree representation of an AccountRecord.
// Nodes are rebuilt from the record set on every load and never mutated in place.
type AccountNode struct {
	AccountRecord
	LevelNo        int             `json:"level_no"`
	SubtreeBalance decimal.Decimal `json:"subtree_balance"`
	Children       []*AccountNode  `json:"children"`
}

// HasChildren reports whether the node has at least one child.
func (n *AccountNode) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Walk visits n and all of its descendants depth-first, pre-order.
// Returning false from fn stops descending into that node's children.
func (n *AccountNode) Walk(fn func(*AccountNode) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// CountNodes returns the total number of nodes in a forest.
func CountNodes(forest []*AccountNode) int {
	count := 0
	for _, root := range forest {
		root.Walk(func(*AccountNode) bool {
			count++
			return true
		})
	}
	return count
}
