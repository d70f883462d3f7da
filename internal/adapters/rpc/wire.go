// Package rpc talks to the remote chart-of-accounts API. Every call is a POST
// of a JSON object carrying an "operation" code plus the operation's fields.
package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

// Operation codes understood by the accounts endpoint.
const (
	OpListAccounts  = 1
	OpCreateAccount = 2
	OpUpdateAccount = 3
	OpDeleteAccount = 4
)

// OperationName returns a readable name for an operation code, used in logs and errors.
func OperationName(op int) string {
	switch op {
	case OpListAccounts:
		return "fetchAccounts"
	case OpCreateAccount:
		return "createAccount"
	case OpUpdateAccount:
		return "updateAccount"
	case OpDeleteAccount:
		return "deleteAccount"
	default:
		return fmt.Sprintf("operation %d", op)
	}
}

// FlexInt decodes an integer sent either as a JSON number or as a numeric
// string. null and "" decode to 0.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Accept integral floats such as 12.0.
		fl, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || fl != float64(int64(fl)) {
			return fmt.Errorf("invalid integer %s", string(data))
		}
		n = int64(fl)
	}
	*f = FlexInt(n)
	return nil
}

// FlexString decodes a JSON string or number into a string. null decodes to "".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*f = ""
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("invalid string %s", string(data))
		}
		*f = FlexString(n.String())
	}
	return nil
}

// AccountPayload is an account as it travels on the wire.
type AccountPayload struct {
	AccountID       FlexInt             `json:"account_id"`
	AccountCode     FlexString          `json:"account_code"`
	AccountName     FlexString          `json:"account_name"`
	AccountType     FlexString          `json:"account_type"`
	ParentAccountID FlexInt             `json:"parent_account_id"`
	Balance         decimal.NullDecimal `json:"balance"`
}

// ToRecord converts the payload into a domain record. Balance defaults to zero.
func (p AccountPayload) ToRecord() (domain.AccountRecord, error) {
	if p.AccountID <= 0 {
		return domain.AccountRecord{}, fmt.Errorf("invalid account_id %d", p.AccountID)
	}
	parent := int(p.ParentAccountID)
	if parent < 0 {
		parent = 0
	}
	balance := decimal.Zero
	if p.Balance.Valid {
		balance = p.Balance.Decimal
	}
	return domain.AccountRecord{
		AccountID:       int(p.AccountID),
		AccountCode:     strings.TrimSpace(string(p.AccountCode)),
		AccountName:     string(p.AccountName),
		AccountType:     domain.NormalizeAccountType(string(p.AccountType)),
		ParentAccountID: parent,
		Balance:         balance,
	}, nil
}

// Request is the body of every call. Fields unused by an operation are omitted.
type Request struct {
	Operation       FlexInt    `json:"operation"`
	AccountID       FlexInt    `json:"account_id,omitempty"`
	AccountCode     FlexString `json:"account_code,omitempty"`
	AccountName     FlexString `json:"account_name,omitempty"`
	AccountType     FlexString `json:"account_type,omitempty"`
	ParentAccountID *FlexInt   `json:"parent_account_id,omitempty"`
}

// CreateResult is the answer to OpCreateAccount.
type CreateResult struct {
	AccountID FlexInt `json:"account_id"`
}

// Status is the optional status envelope some endpoints wrap their answers in.
type Status struct {
	Success *bool           `json:"success,omitempty"`
	Status  string          `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Rejected reports whether the envelope signals failure.
func (s Status) Rejected() bool {
	if s.Success != nil && !*s.Success {
		return true
	}
	return strings.EqualFold(s.Status, "error")
}

// Reason returns the human-readable failure message, if any.
func (s Status) Reason() string {
	if msg := strings.TrimSpace(s.Message); msg != "" {
		return msg
	}
	if len(s.Error) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(s.Error, &str); err == nil {
		return strings.TrimSpace(str)
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(s.Error, &obj); err == nil {
		return strings.TrimSpace(obj.Message)
	}
	return ""
}
