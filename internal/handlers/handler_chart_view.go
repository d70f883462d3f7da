package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	portssvc "github.com/usamajaved138/erp-frontend/internal/core/ports/services"
	"github.com/usamajaved138/erp-frontend/internal/dto"
	"github.com/usamajaved138/erp-frontend/internal/middleware"
)

// chartViewHandler handles HTTP requests against open chart views.
type chartViewHandler struct {
	views portssvc.ViewRegistrySvc
}

func newChartViewHandler(views portssvc.ViewRegistrySvc) *chartViewHandler {
	return &chartViewHandler{views: views}
}

// registerChartViewRoutes registers the view routes. mutate guards the routes
// that write to the remote API.
func registerChartViewRoutes(rg *gin.RouterGroup, views portssvc.ViewRegistrySvc, mutate ...gin.HandlerFunc) {
	h := newChartViewHandler(views)

	rg.POST("/views", h.openView)

	view := rg.Group("/views/:viewID")
	{
		view.GET("", h.getSnapshot)
		view.DELETE("", h.closeView)
		view.POST("/reload", h.reload)
		view.GET("/notifications", h.drainNotifications)

		view.POST("/nodes/:accountID/toggle", h.toggleNode)
		view.POST("/expand-all", h.expandAll)
		view.POST("/collapse-all", h.collapseAll)
		view.POST("/expand-to-level/:level", h.expandToLevel)

		view.GET("/forms/new", h.newAccountForm)
		view.GET("/forms/edit/:accountID", h.editAccountForm)

		accounts := view.Group("/accounts", mutate...)
		accounts.POST("", h.createAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
	}
}

// openView godoc
// @Summary Open a chart view
// @Description Creates a view and loads the chart of accounts into it
// @Tags views
// @Produce  json
// @Success 201 {object} dto.ViewResponse
// @Failure 502 {object} dto.ErrorResponse "Remote API rejected the load"
// @Failure 503 {object} dto.ErrorResponse "Remote API unreachable"
// @Router /views [post]
func (h *chartViewHandler) openView(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	view, err := h.views.Open(c.Request.Context())
	if err != nil && view == nil {
		h.respondError(c, logger, nil, err)
		return
	}
	if err != nil {
		// The view stays open so the operator can retry with /reload.
		logger.Warn("Chart view opened but initial load failed", slog.String("view_id", view.ID()), slog.String("error", err.Error()))
	} else {
		logger.Info("Chart view opened", slog.String("view_id", view.ID()))
	}
	c.JSON(http.StatusCreated, viewResponse(view))
}

// closeView godoc
// @Summary Close a chart view
// @Tags views
// @Param   viewID path string true "View ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "View not found"
// @Router /views/{viewID} [delete]
func (h *chartViewHandler) closeView(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewID := c.Param("viewID")

	if err := h.views.Close(viewID); err != nil {
		h.respondError(c, logger, nil, err)
		return
	}
	logger.Info("Chart view closed", slog.String("view_id", viewID))
	c.Status(http.StatusNoContent)
}

// getSnapshot godoc
// @Summary Get the rendered tree of a view
// @Description Returns the filtered tree and visible rows. A search query parameter replaces the search term.
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Param   search query string false "Search term"
// @Success 200 {object} dto.ViewResponse
// @Failure 404 {object} dto.ErrorResponse "View not found"
// @Router /views/{viewID} [get]
func (h *chartViewHandler) getSnapshot(c *gin.Context) {
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	if term, present := c.GetQuery("search"); present {
		view.SetSearch(term)
	}
	c.JSON(http.StatusOK, viewResponse(view))
}

// reload godoc
// @Summary Reload a view from the remote API
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Success 200 {object} dto.ViewResponse
// @Failure 404 {object} dto.ErrorResponse "View not found"
// @Failure 502 {object} dto.ErrorResponse "Remote API rejected the load"
// @Failure 503 {object} dto.ErrorResponse "Remote API unreachable"
// @Router /views/{viewID}/reload [post]
func (h *chartViewHandler) reload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := view.Load(c.Request.Context()); err != nil {
		h.respondError(c, logger, view, err)
		return
	}
	c.JSON(http.StatusOK, viewResponse(view))
}

// drainNotifications godoc
// @Summary Drain pending notifications
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Success 200 {array} dto.NotificationResponse
// @Failure 404 {object} dto.ErrorResponse "View not found"
// @Router /views/{viewID}/notifications [get]
func (h *chartViewHandler) drainNotifications(c *gin.Context) {
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToNotificationResponses(view.Notifications()))
}

// toggleNode godoc
// @Summary Expand or collapse one node
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Param   accountID path int true "Account ID"
// @Success 200 {object} dto.ToggleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid account ID"
// @Failure 404 {object} dto.ErrorResponse "View or account not found"
// @Router /views/{viewID}/nodes/{accountID}/toggle [post]
func (h *chartViewHandler) toggleNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	accountID, ok := intParam(c, "accountID", 1)
	if !ok {
		return
	}

	expanded, err := view.Toggle(accountID)
	if err != nil {
		h.respondError(c, logger, view, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToggleResponse{
		AccountID:    accountID,
		Expanded:     expanded,
		ViewResponse: viewResponse(view),
	})
}

// expandAll godoc
// @Summary Expand every node
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Success 200 {object} dto.ViewResponse
// @Router /views/{viewID}/expand-all [post]
func (h *chartViewHandler) expandAll(c *gin.Context) {
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	view.ExpandAll()
	c.JSON(http.StatusOK, viewResponse(view))
}

// collapseAll godoc
// @Summary Collapse every node
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Success 200 {object} dto.ViewResponse
// @Router /views/{viewID}/collapse-all [post]
func (h *chartViewHandler) collapseAll(c *gin.Context) {
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	view.CollapseAll()
	c.JSON(http.StatusOK, viewResponse(view))
}

// expandToLevel godoc
// @Summary Expand nodes above a level
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Param   level path int true "Levels to show"
// @Success 200 {object} dto.ViewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid level"
// @Router /views/{viewID}/expand-to-level/{level} [post]
func (h *chartViewHandler) expandToLevel(c *gin.Context) {
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	level, ok := intParam(c, "level", 0)
	if !ok {
		return
	}
	view.ExpandToLevel(level)
	c.JSON(http.StatusOK, viewResponse(view))
}

// newAccountForm godoc
// @Summary Get a create form
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Param   parent_account_id query int false "Parent account ID, omitted or 0 for a top-level account"
// @Success 200 {object} dto.AccountFormResponse
// @Failure 422 {object} dto.ErrorResponse "Parent account does not exist"
// @Router /views/{viewID}/forms/new [get]
func (h *chartViewHandler) newAccountForm(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	parentID := 0
	if raw := c.Query("parent_account_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid parent_account_id"})
			return
		}
		parentID = id
	}

	form, err := view.HandleAddAccount(parentID)
	if err != nil {
		h.respondError(c, logger, view, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountFormResponse(form))
}

// editAccountForm godoc
// @Summary Get an edit form
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Param   accountID path int true "Account ID"
// @Success 200 {object} dto.AccountFormResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /views/{viewID}/forms/edit/{accountID} [get]
func (h *chartViewHandler) editAccountForm(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	accountID, ok := intParam(c, "accountID", 1)
	if !ok {
		return
	}

	form, err := view.HandleEditAccount(accountID)
	if err != nil {
		h.respondError(c, logger, view, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountFormResponse(form))
}

// createAccount godoc
// @Summary Create an account
// @Description Submits the create form to the remote API and reloads the view
// @Tags views
// @Accept  json
// @Produce  json
// @Param   viewID path string true "View ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.CreateAccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 422 {object} dto.ErrorResponse "Parent account does not exist"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 502 {object} dto.ErrorResponse "Remote API rejected the request"
// @Router /views/{viewID}/accounts [post]
func (h *chartViewHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	logger.Info("Received request to create account",
		slog.String("account_name", req.AccountName),
		slog.Int("parent_account_id", req.ParentAccountID))

	accountID, err := view.SubmitCreate(c.Request.Context(), req.ToDraft())
	if err != nil {
		h.respondError(c, logger, view, err)
		return
	}

	logger.Info("Account created successfully", slog.Int("account_id", accountID))
	c.JSON(http.StatusCreated, dto.CreateAccountResponse{
		AccountID:    accountID,
		ViewResponse: viewResponse(view),
	})
}

// updateAccount godoc
// @Summary Update an account
// @Tags views
// @Accept  json
// @Produce  json
// @Param   viewID path string true "View ID"
// @Param   accountID path int true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Account details"
// @Success 200 {object} dto.ViewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 502 {object} dto.ErrorResponse "Remote API rejected the request"
// @Router /views/{viewID}/accounts/{accountID} [put]
func (h *chartViewHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	accountID, ok := intParam(c, "accountID", 1)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.Int("account_id", accountID))
	if err := view.SubmitUpdate(c.Request.Context(), req.ToDraft(accountID)); err != nil {
		h.respondError(c, logger, view, err)
		return
	}
	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, viewResponse(view))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account without sub-accounts and reloads the view
// @Tags views
// @Produce  json
// @Param   viewID path string true "View ID"
// @Param   accountID path int true "Account ID"
// @Success 200 {object} dto.ViewResponse
// @Failure 400 {object} dto.ErrorResponse "Account still has sub-accounts"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 502 {object} dto.ErrorResponse "Remote API rejected the request"
// @Router /views/{viewID}/accounts/{accountID} [delete]
func (h *chartViewHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view, ok := h.lookup(c)
	if !ok {
		return
	}
	accountID, ok := intParam(c, "accountID", 1)
	if !ok {
		return
	}

	logger = logger.With(slog.Int("account_id", accountID))
	if err := view.DeleteAccount(c.Request.Context(), accountID); err != nil {
		h.respondError(c, logger, view, err)
		return
	}
	logger.Info("Account deleted successfully")
	c.JSON(http.StatusOK, viewResponse(view))
}

// lookup resolves the :viewID path parameter, writing a 404 when it is unknown.
func (h *chartViewHandler) lookup(c *gin.Context) (portssvc.ChartViewSvc, bool) {
	view, err := h.views.Get(c.Param("viewID"))
	if err != nil {
		h.respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), nil, err)
		return nil, false
	}
	return view, true
}

// respondError maps err to a status code. Pending notifications of view, if
// any, travel with the error body so the toast is not lost.
func (h *chartViewHandler) respondError(c *gin.Context, logger *slog.Logger, view portssvc.ChartViewSvc, err error) {
	appErr := toAppError(err)
	if appErr.Code >= http.StatusInternalServerError && appErr.Code != http.StatusBadGateway && appErr.Code != http.StatusServiceUnavailable {
		logger.Error("Chart view request failed", slog.String("error", err.Error()))
	} else {
		logger.Warn("Chart view request rejected", slog.Int("status", appErr.Code), slog.String("error", err.Error()))
	}

	body := dto.ErrorResponse{Error: appErr.Message}
	if view != nil {
		body.Notifications = dto.ToNotificationResponses(view.Notifications())
	}
	c.JSON(appErr.Code, body)
}

// toAppError assigns the HTTP status for a service error.
func toAppError(err error) *apperrors.AppError {
	msg := apperrors.UserMessage(err)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewAppError(http.StatusNotFound, msg, err)
	case errors.Is(err, apperrors.ErrValidation):
		return apperrors.NewAppError(http.StatusBadRequest, msg, err)
	case errors.Is(err, apperrors.ErrInvalidParentReference):
		return apperrors.NewAppError(http.StatusUnprocessableEntity, msg, err)
	case errors.Is(err, apperrors.ErrViewClosed):
		return apperrors.NewAppError(http.StatusGone, msg, err)
	case errors.Is(err, apperrors.ErrServerRejection):
		return apperrors.NewAppError(http.StatusBadGateway, msg, err)
	case errors.Is(err, apperrors.ErrNetwork):
		return apperrors.NewAppError(http.StatusServiceUnavailable, msg, err)
	default:
		return apperrors.NewAppError(http.StatusInternalServerError, msg, err)
	}
}

// intParam parses a path parameter and checks it against lowest.
func intParam(c *gin.Context, name string, lowest int) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < lowest {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return n, true
}

func viewResponse(view portssvc.ChartViewSvc) dto.ViewResponse {
	return dto.ViewResponse{
		Snapshot:      dto.ToSnapshotResponse(view.Snapshot()),
		Notifications: dto.ToNotificationResponses(view.Notifications()),
	}
}
