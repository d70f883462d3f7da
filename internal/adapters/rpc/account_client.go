package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
	"github.com/usamajaved138/erp-frontend/internal/middleware"
)

const maxResponseBytes = 8 << 20

// AccountClient implements the account repository ports against the remote API.
type AccountClient struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// ClientOption is a functional option for configuring an AccountClient
type ClientOption func(*AccountClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *AccountClient) {
		c.http = client
	}
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *AccountClient) {
		c.http.Timeout = timeout
	}
}

// WithClientLogger sets the logger used when the context carries none.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *AccountClient) {
		c.logger = logger
	}
}

// NewAccountClient creates a client posting to endpoint, e.g. http://host/api/accounts.
func NewAccountClient(endpoint string, options ...ClientOption) *AccountClient {
	c := &AccountClient{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ portsrepo.AccountRepositoryFacade = (*AccountClient)(nil)

// FetchAccounts retrieves the full account list. Both a bare array and a
// {"data": [...]} envelope are accepted. Any other shape yields an empty slice
// and apperrors.ErrMalformedResponse. Records that cannot be decoded are skipped.
func (c *AccountClient) FetchAccounts(ctx context.Context) ([]domain.AccountRecord, error) {
	body, err := c.call(ctx, Request{Operation: OpListAccounts})
	if err != nil {
		return nil, err
	}

	items, err := listItems(body)
	if err != nil {
		return []domain.AccountRecord{}, err
	}

	records := make([]domain.AccountRecord, 0, len(items))
	for i, item := range items {
		var payload AccountPayload
		if err := json.Unmarshal(item, &payload); err != nil {
			c.log(ctx).Warn("Skipping undecodable account", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		record, err := payload.ToRecord()
		if err != nil {
			c.log(ctx).Warn("Skipping invalid account", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func listItems(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", apperrors.ErrMalformedResponse)
	}

	var items []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
		}
		return items, nil
	}

	var envelope Status
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: account list is not an array", apperrors.ErrMalformedResponse)
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}
	return items, nil
}

// CreateAccount sends the name, type and parent. The server assigns the code and id.
func (c *AccountClient) CreateAccount(ctx context.Context, draft domain.AccountDraft) (int, error) {
	parent := FlexInt(draft.ParentAccountID)
	body, err := c.call(ctx, Request{
		Operation:       OpCreateAccount,
		AccountName:     FlexString(draft.AccountName),
		AccountType:     FlexString(draft.AccountType),
		ParentAccountID: &parent,
	})
	if err != nil {
		return 0, err
	}

	var result CreateResult
	if err := json.Unmarshal(unwrapData(body), &result); err != nil || result.AccountID <= 0 {
		// Some deployments only acknowledge; the id shows up on the next fetch.
		c.log(ctx).Warn("Create acknowledged without an account id")
		return 0, nil
	}
	return int(result.AccountID), nil
}

// UpdateAccount sends the full editable state of the account. The code is only
// sent when set.
func (c *AccountClient) UpdateAccount(ctx context.Context, draft domain.AccountDraft) error {
	parent := FlexInt(draft.ParentAccountID)
	_, err := c.call(ctx, Request{
		Operation:       OpUpdateAccount,
		AccountID:       FlexInt(draft.AccountID),
		AccountCode:     FlexString(draft.AccountCode),
		AccountName:     FlexString(draft.AccountName),
		AccountType:     FlexString(draft.AccountType),
		ParentAccountID: &parent,
	})
	return err
}

func (c *AccountClient) DeleteAccount(ctx context.Context, accountID int) error {
	_, err := c.call(ctx, Request{
		Operation: OpDeleteAccount,
		AccountID: FlexInt(accountID),
	})
	return err
}

// call posts one operation and returns the raw body of a successful answer.
// Transport failures become NetworkError; non-2xx answers and 2xx answers
// carrying a failure envelope become ServerRejectionError.
func (c *AccountClient) call(ctx context.Context, req Request) ([]byte, error) {
	opName := OperationName(int(req.Operation))

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", opName, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", opName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log(ctx).Error("Remote call failed", slog.String("operation", opName), slog.String("error", err.Error()))
		return nil, apperrors.NewNetworkError(opName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.NewNetworkError(opName, err)
	}

	c.log(ctx).Debug("Remote call completed",
		slog.String("operation", opName),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewServerRejection(resp.StatusCode, rejectionMessage(body))
	}

	if status, ok := decodeStatus(body); ok && status.Rejected() {
		return nil, apperrors.NewServerRejection(resp.StatusCode, status.Reason())
	}
	return body, nil
}

func decodeStatus(body []byte) (Status, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Status{}, false
	}
	var status Status
	if err := json.Unmarshal(trimmed, &status); err != nil {
		return Status{}, false
	}
	return status, true
}

func rejectionMessage(body []byte) string {
	if status, ok := decodeStatus(body); ok {
		if reason := status.Reason(); reason != "" {
			return reason
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}

// unwrapData returns the "data" member of an envelope, or body itself.
func unwrapData(body []byte) []byte {
	if status, ok := decodeStatus(body); ok && len(bytes.TrimSpace(status.Data)) > 0 {
		return bytes.TrimSpace(status.Data)
	}
	return body
}

func (c *AccountClient) log(ctx context.Context) *slog.Logger {
	if logger, ok := middleware.LoggerFromCtx(ctx); ok {
		return logger
	}
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
