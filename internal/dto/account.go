package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
// The account code is assigned by the server.
type CreateAccountRequest struct {
	AccountName     string             `json:"accountName" binding:"required,max=100"`
	AccountType     domain.AccountType `json:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"` // ignored for sub-accounts
	ParentAccountID int                `json:"parentAccountID" binding:"min=0"`                                              // 0 for a top-level account
}

// ToDraft converts the request into a form draft.
func (r CreateAccountRequest) ToDraft() domain.AccountDraft {
	return domain.AccountDraft{
		AccountName:     r.AccountName,
		AccountType:     r.AccountType,
		ParentAccountID: r.ParentAccountID,
	}
}

// UpdateAccountRequest defines the data allowed for updating an account.
type UpdateAccountRequest struct {
	AccountCode     string             `json:"accountCode" binding:"max=50"` // Optional: keep the current code when empty
	AccountName     string             `json:"accountName" binding:"required,max=100"`
	AccountType     domain.AccountType `json:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID int                `json:"parentAccountID" binding:"min=0"`
}

// ToDraft converts the request into a form draft for accountID.
func (r UpdateAccountRequest) ToDraft(accountID int) domain.AccountDraft {
	return domain.AccountDraft{
		AccountID:       accountID,
		AccountCode:     r.AccountCode,
		AccountName:     r.AccountName,
		AccountType:     r.AccountType,
		ParentAccountID: r.ParentAccountID,
	}
}

// AccountNodeResponse is one node of the account tree, with its children.
type AccountNodeResponse struct {
	AccountID       int                   `json:"accountID"`
	AccountCode     string                `json:"accountCode"`
	AccountName     string                `json:"accountName"`
	AccountType     domain.AccountType    `json:"accountType"`
	ParentAccountID *int                  `json:"parentAccountID"` // null for top-level accounts
	LevelNo         int                   `json:"levelNo"`
	Balance         decimal.Decimal       `json:"balance"`
	SubtreeBalance  decimal.Decimal       `json:"subtreeBalance"`
	Children        []AccountNodeResponse `json:"children"`
}

// AccountRowResponse is one visible line of the rendered tree.
type AccountRowResponse struct {
	AccountID       int                `json:"accountID"`
	AccountCode     string             `json:"accountCode"`
	AccountName     string             `json:"accountName"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID *int               `json:"parentAccountID"`
	LevelNo         int                `json:"levelNo"`
	Balance         decimal.Decimal    `json:"balance"`
	SubtreeBalance  decimal.Decimal    `json:"subtreeBalance"`
	Expanded        bool               `json:"expanded"`
	HasChildren     bool               `json:"hasChildren"`
}

// SnapshotResponse is the renderable state of one view.
type SnapshotResponse struct {
	ViewID        string                `json:"viewID"`
	Loaded        bool                  `json:"loaded"`
	SearchTerm    string                `json:"searchTerm"`
	TotalAccounts int                   `json:"totalAccounts"`
	MatchCount    int                   `json:"matchCount"`
	Tree          []AccountNodeResponse `json:"tree"`
	Rows          []AccountRowResponse  `json:"rows"`
}

// NotificationResponse is one toast.
type NotificationResponse struct {
	Level     domain.NotificationLevel `json:"level"`
	Message   string                   `json:"message"`
	CreatedAt time.Time                `json:"createdAt"`
}

// ViewResponse is returned by every operation that changes what the view shows.
type ViewResponse struct {
	Snapshot      SnapshotResponse       `json:"snapshot"`
	Notifications []NotificationResponse `json:"notifications"`
}

// CreateAccountResponse carries the id assigned by the server alongside the refreshed view.
type CreateAccountResponse struct {
	AccountID int `json:"accountID"`
	ViewResponse
}

// ToggleResponse reports the new state of a toggled node.
type ToggleResponse struct {
	AccountID int  `json:"accountID"`
	Expanded  bool `json:"expanded"`
	ViewResponse
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error         string                 `json:"error"`
	Notifications []NotificationResponse `json:"notifications,omitempty"`
}

// AccountDraftResponse is the pre-filled content of a form.
type AccountDraftResponse struct {
	AccountID       int                `json:"accountID,omitempty"`
	AccountCode     string             `json:"accountCode,omitempty"`
	AccountName     string             `json:"accountName"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID int                `json:"parentAccountID"`
}

// ParentOptionResponse is one entry of the parent selector.
type ParentOptionResponse struct {
	AccountID   int                `json:"accountID"`
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	LevelNo     int                `json:"levelNo"`
	Label       string             `json:"label"`
}

// AccountFormResponse describes a create or edit form.
type AccountFormResponse struct {
	Mode          domain.FormMode        `json:"mode"`
	Draft         AccountDraftResponse   `json:"draft"`
	TypeLocked    bool                   `json:"typeLocked"`
	AccountTypes  []domain.AccountType   `json:"accountTypes"`
	ParentOptions []ParentOptionResponse `json:"parentOptions"`
}

func parentRef(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}

// ToAccountNodeResponse converts a domain.AccountNode and its subtree.
func ToAccountNodeResponse(n *domain.AccountNode) AccountNodeResponse {
	res := AccountNodeResponse{
		AccountID:       n.AccountID,
		AccountCode:     n.AccountCode,
		AccountName:     n.AccountName,
		AccountType:     n.AccountType,
		ParentAccountID: parentRef(n.ParentAccountID),
		LevelNo:         n.LevelNo,
		Balance:         n.Balance,
		SubtreeBalance:  n.SubtreeBalance,
		Children:        make([]AccountNodeResponse, len(n.Children)),
	}
	for i, child := range n.Children {
		res.Children[i] = ToAccountNodeResponse(child)
	}
	return res
}

// ToSnapshotResponse converts a domain.ChartSnapshot to its DTO.
func ToSnapshotResponse(s domain.ChartSnapshot) SnapshotResponse {
	res := SnapshotResponse{
		ViewID:        s.ViewID,
		Loaded:        s.Loaded,
		SearchTerm:    s.SearchTerm,
		TotalAccounts: s.TotalAccounts,
		MatchCount:    s.MatchCount,
		Tree:          make([]AccountNodeResponse, len(s.Tree)),
		Rows:          make([]AccountRowResponse, len(s.Rows)),
	}
	for i, n := range s.Tree {
		res.Tree[i] = ToAccountNodeResponse(n)
	}
	for i, row := range s.Rows {
		res.Rows[i] = AccountRowResponse{
			AccountID:       row.Node.AccountID,
			AccountCode:     row.Node.AccountCode,
			AccountName:     row.Node.AccountName,
			AccountType:     row.Node.AccountType,
			ParentAccountID: parentRef(row.Node.ParentAccountID),
			LevelNo:         row.Node.LevelNo,
			Balance:         row.Node.Balance,
			SubtreeBalance:  row.Node.SubtreeBalance,
			Expanded:        row.Expanded,
			HasChildren:     row.HasChildren,
		}
	}
	return res
}

// ToNotificationResponses converts drained notifications; never returns nil.
func ToNotificationResponses(ns []domain.Notification) []NotificationResponse {
	res := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		res[i] = NotificationResponse{Level: n.Level, Message: n.Message, CreatedAt: n.CreatedAt}
	}
	return res
}

// ToAccountFormResponse converts a domain.AccountForm to its DTO.
func ToAccountFormResponse(f domain.AccountForm) AccountFormResponse {
	res := AccountFormResponse{
		Mode: f.Mode,
		Draft: AccountDraftResponse{
			AccountID:       f.Draft.AccountID,
			AccountCode:     f.Draft.AccountCode,
			AccountName:     f.Draft.AccountName,
			AccountType:     f.Draft.AccountType,
			ParentAccountID: f.Draft.ParentAccountID,
		},
		TypeLocked:    f.TypeLocked,
		AccountTypes:  domain.AccountTypes,
		ParentOptions: make([]ParentOptionResponse, len(f.ParentOptions)),
	}
	for i, opt := range f.ParentOptions {
		res.ParentOptions[i] = ParentOptionResponse{
			AccountID:   opt.AccountID,
			AccountCode: opt.AccountCode,
			AccountName: opt.AccountName,
			AccountType: opt.AccountType,
			LevelNo:     opt.LevelNo,
			Label:       opt.Label,
		}
	}
	return res
}
