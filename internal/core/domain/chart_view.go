package domain

import "time"

// AccountDraft carries the operator's input for a create or update.
// AccountID and AccountCode are ignored on create; the server assigns both.
type AccountDraft struct {
	AccountID       int         `json:"account_id"`
	AccountCode     string      `json:"account_code" validate:"max=50"`
	AccountName     string      `json:"account_name" validate:"required,max=100"`
	AccountType     AccountType `json:"account_type" validate:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID int         `json:"parent_account_id" validate:"min=0"`
}

// FormMode tells whether an AccountForm creates or edits an account.
type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// ParentOption is one entry of the parent picker shown on the account form.
type ParentOption struct {
	AccountID   int         `json:"account_id"`
	AccountCode string      `json:"account_code"`
	AccountName string      `json:"account_name"`
	AccountType AccountType `json:"account_type"`
	LevelNo     int         `json:"level_no"`
	Label       string      `json:"label"`
}

// AccountForm is the pre-filled state of the add/edit account form.
// TypeLocked is set when the type is dictated by the parent or by existing
// sub-accounts and the operator's choice would be ignored.
type AccountForm struct {
	Mode          FormMode       `json:"mode"`
	Draft         AccountDraft   `json:"draft"`
	TypeLocked    bool           `json:"type_locked"`
	ParentOptions []ParentOption `json:"parent_options"`
}

// NotificationLevel is the severity of a user-visible notification.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notification is a toast shown to the operator.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

// VisibleRow is one rendered line of the tree: a node whose ancestors are all expanded.
type VisibleRow struct {
	Node        *AccountNode
	Expanded    bool
	HasChildren bool
}

// ChartSnapshot is a consistent read of a chart view's state.
type ChartSnapshot struct {
	ViewID        string
	Loaded        bool
	SearchTerm    string
	Tree          []*AccountNode
	Rows          []VisibleRow
	TotalAccounts int
	MatchCount    int
}
