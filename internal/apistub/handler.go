// Package apistub serves a development stand-in for the remote accounts API:
// one POST endpoint that dispatches on the "operation" code of the body.
package apistub

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/usamajaved138/erp-frontend/internal/adapters/rpc"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
	"github.com/usamajaved138/erp-frontend/internal/middleware"
)

// AccountsHandler answers operation codes 1-4 from an account store.
type AccountsHandler struct {
	store portsrepo.AccountRepositoryFacade
}

// NewAccountsHandler creates a handler over store.
func NewAccountsHandler(store portsrepo.AccountRepositoryFacade) *AccountsHandler {
	return &AccountsHandler{store: store}
}

// RegisterRoutes mounts the accounts endpoint under /api/accounts.
func RegisterRoutes(r gin.IRouter, h *AccountsHandler) {
	r.POST("/api/accounts", h.Dispatch)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Dispatch decodes the operation and routes it.
func (h *AccountsHandler) Dispatch(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req rpc.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind operation request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}
	logger = logger.With(slog.String("operation", rpc.OperationName(int(req.Operation))))

	switch req.Operation {
	case rpc.OpListAccounts:
		h.list(c, logger)
	case rpc.OpCreateAccount:
		h.create(c, logger, req)
	case rpc.OpUpdateAccount:
		h.update(c, logger, req)
	case rpc.OpDeleteAccount:
		h.delete(c, logger, req)
	default:
		logger.Warn("Unknown operation requested", slog.Int("code", int(req.Operation)))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown operation"})
	}
}

func (h *AccountsHandler) list(c *gin.Context, logger *slog.Logger) {
	records, err := h.store.FetchAccounts(c.Request.Context())
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	if records == nil {
		records = []domain.AccountRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *AccountsHandler) create(c *gin.Context, logger *slog.Logger, req rpc.Request) {
	draft := draftFromRequest(req)
	accountID, err := h.store.CreateAccount(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	logger.Info("Account created", slog.Int("account_id", accountID))
	c.JSON(http.StatusOK, gin.H{"success": true, "account_id": accountID})
}

func (h *AccountsHandler) update(c *gin.Context, logger *slog.Logger, req rpc.Request) {
	if req.AccountID <= 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "account_id is required"})
		return
	}
	if err := h.store.UpdateAccount(c.Request.Context(), draftFromRequest(req)); err != nil {
		h.fail(c, logger, err)
		return
	}
	logger.Info("Account updated", slog.Int("account_id", int(req.AccountID)))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account updated"})
}

func (h *AccountsHandler) delete(c *gin.Context, logger *slog.Logger, req rpc.Request) {
	if req.AccountID <= 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "account_id is required"})
		return
	}
	if err := h.store.DeleteAccount(c.Request.Context(), int(req.AccountID)); err != nil {
		h.fail(c, logger, err)
		return
	}
	logger.Info("Account deleted", slog.Int("account_id", int(req.AccountID)))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted"})
}

// fail reports business rule violations the way the production API does:
// HTTP 200 with success=false. Anything else is a 500.
func (h *AccountsHandler) fail(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrInvalidParentReference):
		logger.Warn("Operation rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"success": false, "message": rejectionText(err)})
	default:
		logger.Error("Operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

// rejectionText strips the sentinel prefix, leaving the operator-facing part.
func rejectionText(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{apperrors.ErrValidation, apperrors.ErrNotFound, apperrors.ErrInvalidParentReference} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	if msg == "" {
		return "Request rejected"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func draftFromRequest(req rpc.Request) domain.AccountDraft {
	draft := domain.AccountDraft{
		AccountID:   int(req.AccountID),
		AccountCode: strings.TrimSpace(string(req.AccountCode)),
		AccountName: strings.TrimSpace(string(req.AccountName)),
		AccountType: domain.NormalizeAccountType(string(req.AccountType)),
	}
	if req.ParentAccountID != nil && *req.ParentAccountID > 0 {
		draft.ParentAccountID = int(*req.ParentAccountID)
	}
	return draft
}
