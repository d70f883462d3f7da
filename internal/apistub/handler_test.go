package apistub_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamajaved138/erp-frontend/internal/adapters/rpc"
	"github.com/usamajaved138/erp-frontend/internal/apistub"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	"github.com/usamajaved138/erp-frontend/internal/core/services"
	"github.com/usamajaved138/erp-frontend/internal/repositories/memory"
)

func newStub(t *testing.T, seed ...domain.AccountRecord) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apistub.RegisterRoutes(router, apistub.NewAccountsHandler(memory.NewAccountRepository(seed...)))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestStub_RoundTripThroughClient(t *testing.T) {
	srv := newStub(t, domain.AccountRecord{AccountID: 1, AccountCode: "1000", AccountName: "Assets", AccountType: domain.Asset})
	client := rpc.NewAccountClient(srv.URL + "/api/accounts")
	ctx := context.Background()

	id, err := client.CreateAccount(ctx, domain.AccountDraft{AccountName: "Cash", AccountType: domain.Expense, ParentAccountID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	records, err := client.FetchAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1000.01", records[1].AccountCode)
	assert.Equal(t, domain.Asset, records[1].AccountType, "the stub enforces the parent's type")
	assert.Equal(t, 1, records[1].ParentAccountID)
	assert.True(t, records[0].IsTopLevel())

	require.NoError(t, client.UpdateAccount(ctx, domain.AccountDraft{AccountID: 2, AccountName: "Cash at bank", AccountType: domain.Asset, ParentAccountID: 1}))

	err = client.DeleteAccount(ctx, 1)
	require.Error(t, err)
	var rejection *apperrors.ServerRejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusOK, rejection.StatusCode)
	assert.Equal(t, `Account "Assets" still has sub-accounts`, rejection.Message)

	require.NoError(t, client.DeleteAccount(ctx, 2))
	records, err = client.FetchAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStub_RejectsInvalidRequests(t *testing.T) {
	srv := newStub(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"unknown operation", `{"operation": 9}`, http.StatusBadRequest, `"Unknown operation"`},
		{"not json", `nope`, http.StatusBadRequest, `"success":false`},
		{"update without id", `{"operation": 3, "account_name": "X"}`, http.StatusOK, `account_id is required`},
		{"create under missing parent", `{"operation": 2, "account_name": "X", "parent_account_id": "12"}`, http.StatusOK, `"success":false`},
		{"empty list", `{"operation": "1"}`, http.StatusOK, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/accounts", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			buf := new(bytes.Buffer)
			_, err = buf.ReadFrom(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, buf.String(), tt.wantBody)
		})
	}
}

func TestStub_DrivesChartView(t *testing.T) {
	srv := newStub(t,
		domain.AccountRecord{AccountID: 1, AccountCode: "1000", AccountName: "Assets", AccountType: domain.Asset},
		domain.AccountRecord{AccountID: 2, AccountCode: "2000", AccountName: "Liabilities", AccountType: domain.Liability},
	)
	view := services.NewChartView(rpc.NewAccountClient(srv.URL + "/api/accounts"))
	ctx := context.Background()

	require.NoError(t, view.Load(ctx))
	_, err := view.SubmitCreate(ctx, domain.AccountDraft{AccountName: "Petty Cash", ParentAccountID: 1})
	require.NoError(t, err)

	view.SetSearch("petty")
	snap := view.Snapshot()
	assert.Equal(t, 3, snap.TotalAccounts)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "Assets", snap.Rows[0].Node.AccountName)
	assert.Equal(t, "Petty Cash", snap.Rows[1].Node.AccountName)
	assert.Equal(t, domain.Asset, snap.Rows[1].Node.AccountType)
}
