package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamajaved138/erp-frontend/internal/apistub"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/commands"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	"github.com/usamajaved138/erp-frontend/internal/platform/config"
	"github.com/usamajaved138/erp-frontend/internal/repositories/memory"
)

// newStub serves a small chart:
//
//	1000 Assets (1)
//	  1000.01 Cash (2)
//	2000 Liabilities (3)
func newStub(t *testing.T) (*httptest.Server, *memory.AccountRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewAccountRepository(
		domain.AccountRecord{AccountID: 1, AccountCode: "1000", AccountName: "Assets", AccountType: domain.Asset},
		domain.AccountRecord{AccountID: 2, AccountCode: "1000.01", AccountName: "Cash", AccountType: domain.Asset, ParentAccountID: 1, Balance: decimal.RequireFromString("12.5")},
		domain.AccountRecord{AccountID: 3, AccountCode: "2000", AccountName: "Liabilities", AccountType: domain.Liability},
	)
	router := gin.New()
	apistub.RegisterRoutes(router, apistub.NewAccountsHandler(store))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func runCoactl(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()
	cfg := &config.Config{CoaAPIURL: apiURL, CoaAPITimeout: 5 * time.Second}
	root := commands.NewRootCommand(cfg)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestTree_DefaultExpansion(t *testing.T) {
	srv, _ := newStub(t)

	out, _, err := runCoactl(t, srv.URL+"/api/accounts", "tree")
	require.NoError(t, err)

	assert.Contains(t, out, "[-] 1000 Assets")
	assert.Contains(t, out, "1000.01 Cash")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "2000 Liabilities")
	assert.Contains(t, out, "3 accounts.")
}

func TestTree_LevelZeroShowsRootsOnly(t *testing.T) {
	srv, _ := newStub(t)

	out, _, err := runCoactl(t, srv.URL+"/api/accounts", "tree", "--level", "0")
	require.NoError(t, err)

	assert.Contains(t, out, "[+] 1000 Assets")
	assert.NotContains(t, out, "Cash")
}

func TestTree_Search(t *testing.T) {
	srv, _ := newStub(t)

	out, _, err := runCoactl(t, srv.URL+"/api/accounts", "tree", "--level", "0", "--search", "CASH")
	require.NoError(t, err)

	assert.Contains(t, out, "1000 Assets")
	assert.Contains(t, out, "1000.01 Cash")
	assert.NotContains(t, out, "Liabilities")
	assert.Contains(t, out, `1 of 3 accounts match "CASH"`)

	out, _, err = runCoactl(t, srv.URL+"/api/accounts", "tree", "--search", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, `No accounts match "nothing"`)
}

func TestAdd_ChildTakesParentType(t *testing.T) {
	srv, store := newStub(t)

	out, _, err := runCoactl(t, srv.URL+"/api/accounts", "add", "--name", "Bank", "--parent", "1", "--type", "EXPENSE")
	require.NoError(t, err)
	assert.Contains(t, out, `success: Account "Bank" created.`)
	assert.Contains(t, out, "4\t1000.02\tASSET")

	records, err := store.FetchAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, domain.Asset, records[3].AccountType)
}

func TestAdd_Rejections(t *testing.T) {
	srv, _ := newStub(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"root without type", []string{"add", "--name", "Misc"}, apperrors.ErrValidation},
		{"missing parent", []string{"add", "--name", "Misc", "--parent", "99"}, apperrors.ErrInvalidParentReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCoactl(t, srv.URL+"/api/accounts", tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, _, err := runCoactl(t, srv.URL+"/api/accounts", "add")
	require.Error(t, err, "--name is required")
}

func TestEdit_OnlyChangesGivenFlags(t *testing.T) {
	srv, store := newStub(t)

	_, _, err := runCoactl(t, srv.URL+"/api/accounts", "edit", "2", "--name", "Cash on hand")
	require.NoError(t, err)

	records, err := store.FetchAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cash on hand", records[1].AccountName)
	assert.Equal(t, "1000.01", records[1].AccountCode)
	assert.Equal(t, 1, records[1].ParentAccountID)
}

func TestEdit_MoveUnderOtherRoot(t *testing.T) {
	srv, store := newStub(t)

	_, _, err := runCoactl(t, srv.URL+"/api/accounts", "edit", "2", "--parent", "3")
	require.NoError(t, err)

	records, err := store.FetchAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, records[1].ParentAccountID)
	assert.Equal(t, domain.Liability, records[1].AccountType)
}

func TestDelete(t *testing.T) {
	srv, _ := newStub(t)
	url := srv.URL + "/api/accounts"

	_, _, err := runCoactl(t, url, "delete", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = runCoactl(t, url, "delete", "abc")
	require.Error(t, err)

	_, _, err = runCoactl(t, url, "delete", "2")
	require.NoError(t, err)

	out, _, err := runCoactl(t, url, "tree")
	require.NoError(t, err)
	assert.NotContains(t, out, "Cash")
}

func TestParents(t *testing.T) {
	srv, _ := newStub(t)

	out, _, err := runCoactl(t, srv.URL+"/api/accounts", "parents")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "0\t(none, top-level)", lines[0])
	assert.Equal(t, "2\t  1000.01 - Cash\tASSET", lines[2])

	out, _, err = runCoactl(t, srv.URL+"/api/accounts", "parents", "--exclude", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Assets")
	assert.NotContains(t, out, "Cash")
	assert.Contains(t, out, "Liabilities")
}

func TestServerFailures(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downURL := down.URL
	down.Close()

	_, _, err := runCoactl(t, downURL, "tree")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	assert.Equal(t, "Unable to reach the server. Check your connection and try again.", commands.ErrorText(err))

	malformed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"unexpected": true}`)
	}))
	t.Cleanup(malformed.Close)

	out, errOut, err := runCoactl(t, malformed.URL, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts.")
	assert.Contains(t, errOut, "warning:")
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Duplicate code", commands.ErrorText(apperrors.NewServerRejection(http.StatusOK, "Duplicate code")))
	assert.Equal(t, "unknown flag: --nope", commands.ErrorText(errors.New("unknown flag: --nope")))
}
