package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/SscSPs/case_management_app/internal/dto"
	"github.com/SscSPs/case_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests for project budgets and the
// transaction ledger.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
	userService   portssvc.UserSvcFacade
}

// newBudgetHandler creates a new budgetHandler.
func newBudgetHandler(budgetService portssvc.BudgetSvcFacade, userService portssvc.UserSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService: budgetService,
		userService:   userService,
	}
}

// getBudget godoc
// @Summary Get a project's budget with its cost centers
// @Tags budgets
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} dto.BudgetResponse "The budget document"
// @Failure 500 {object} map[string]string "Failed to retrieve budget"
// @Router /projects/{projectID}/budget [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	budget, err := h.budgetService.GetBudget(c.Request.Context(), projectID)
	if err != nil {
		logger.Error("Failed to get budget", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve budget"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// setBudget godoc
// @Summary Set a project's total budget
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   budget body dto.SetBudgetRequest true "Total budget"
// @Success 200 {object} dto.BudgetResponse "The updated budget document"
// @Failure 400 {object} map[string]string "Invalid request format or negative amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to set budget"
// @Router /projects/{projectID}/budget [put]
func (h *budgetHandler) setBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	req := dto.SetBudgetRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for setBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	if err := h.budgetService.SetTotalBudget(c.Request.Context(), projectID, req.TotalBudget, actor.UserID); err != nil {
		if errors.Is(err, apperrors.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to set budget", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set budget"})
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), projectID)
	if err != nil {
		logger.Error("Failed to reload budget", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve budget"})
		return
	}

	logger.Info("Budget set", slog.String("project_id", projectID), slog.String("total", req.TotalBudget.String()))
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// allocateCostCenter godoc
// @Summary Add a named cost center to a project's budget
// @Description Allocation may exceed the total budget; over-allocation is surfaced as a warning flag, not an error
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   costCenter body dto.AllocateCostCenterRequest true "Cost center"
// @Success 201 {object} dto.CostCenterResponse "The created cost center"
// @Failure 400 {object} map[string]string "Invalid request format or negative amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Cost center name already in use"
// @Failure 500 {object} map[string]string "Failed to allocate cost center"
// @Router /projects/{projectID}/cost-centers [post]
func (h *budgetHandler) allocateCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	req := dto.AllocateCostCenterRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for allocateCostCenter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	item, err := h.budgetService.AllocateCostCenter(c.Request.Context(), projectID, req.Name, req.Amount, actor.UserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to allocate cost center", slog.String("error", err.Error()), slog.String("project_id", projectID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate cost center"})
		}
		return
	}

	logger.Info("Cost center allocated", slog.String("project_id", projectID), slog.String("name", req.Name))
	c.JSON(http.StatusCreated, dto.ToCostCenterResponse(item))
}

// deallocateCostCenter godoc
// @Summary Remove a cost center from a project's budget
// @Description Historical transactions keep their category and stay counted in the project-level aggregates
// @Tags budgets
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   costCenterID path string true "Cost Center ID"
// @Success 204 "Removed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Cost center not found"
// @Failure 500 {object} map[string]string "Failed to remove cost center"
// @Router /projects/{projectID}/cost-centers/{costCenterID} [delete]
func (h *budgetHandler) deallocateCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	costCenterID := c.Param("costCenterID")

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	if err := h.budgetService.DeallocateCostCenter(c.Request.Context(), projectID, costCenterID, actor.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cost center not found"})
			return
		}
		logger.Error("Failed to remove cost center", slog.String("error", err.Error()), slog.String("cost_center_id", costCenterID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cost center"})
		return
	}

	logger.Info("Cost center removed", slog.String("project_id", projectID), slog.String("cost_center_id", costCenterID))
	c.Status(http.StatusNoContent)
}

// recordTransaction godoc
// @Summary Post a ledger transaction against a project
// @Description Transactions by finance or super-admin users are approved immediately and hit the aggregates; all others land in the pending bucket for review
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse "The recorded transaction"
// @Failure 400 {object} map[string]string "Invalid request format or amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record transaction"
// @Router /projects/{projectID}/transactions [post]
func (h *budgetHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	req := dto.CreateTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for recordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	txn, err := h.budgetService.RecordTransaction(c.Request.Context(), projectID, req, actor.UserID, actor.Role)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidAmount) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to record transaction", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("project_id", projectID),
		slog.String("status", string(txn.Status)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List a project's transactions, newest first
// @Tags transactions
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   limit query int false "Page size (default 25, max 100)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse "One page of transactions"
// @Failure 400 {object} map[string]string "Invalid pagination parameters"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /projects/{projectID}/transactions [get]
func (h *budgetHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	params := dto.ListTransactionsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	page, err := h.budgetService.ListTransactions(c.Request.Context(), projectID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Description Moves the pending amount into the real aggregates. Finance and super-admin only
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse "The approved transaction"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not review transactions"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not pending"
// @Failure 500 {object} map[string]string "Failed to approve transaction"
// @Router /transactions/{transactionID}/approve [post]
func (h *budgetHandler) approveTransaction(c *gin.Context) {
	h.reviewTransaction(c, h.budgetService.ApproveTransaction, "Failed to approve transaction")
}

// rejectTransaction godoc
// @Summary Reject a pending transaction
// @Description Releases the pending amount without touching the real aggregates. Finance and super-admin only
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse "The rejected transaction"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not review transactions"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not pending"
// @Failure 500 {object} map[string]string "Failed to reject transaction"
// @Router /transactions/{transactionID}/reject [post]
func (h *budgetHandler) rejectTransaction(c *gin.Context) {
	h.reviewTransaction(c, h.budgetService.RejectTransaction, "Failed to reject transaction")
}

type reviewFunc func(ctx context.Context, transactionID, approverID string, approverRole domain.Role) (*domain.Transaction, error)

func (h *budgetHandler) reviewTransaction(c *gin.Context, review reviewFunc, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	txn, err := review(c.Request.Context(), transactionID, actor.UserID, actor.Role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("Transaction review by unauthorized role",
				slog.String("transaction_id", transactionID), slog.String("role", string(actor.Role)))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error(fallback, slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		}
		return
	}

	logger.Info("Transaction reviewed",
		slog.String("transaction_id", transactionID),
		slog.String("status", string(txn.Status)),
		slog.String("reviewer", actor.UserID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// registerBudgetRoutes registers budget and transaction routes.
func registerBudgetRoutes(group *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade, userService portssvc.UserSvcFacade) {
	h := newBudgetHandler(budgetService, userService)

	projects := group.Group("/projects/:projectID")
	{
		projects.GET("/budget", h.getBudget)
		projects.PUT("/budget", h.setBudget)
		projects.POST("/cost-centers", h.allocateCostCenter)
		projects.DELETE("/cost-centers/:costCenterID", h.deallocateCostCenter)
		projects.POST("/transactions", h.recordTransaction)
		projects.GET("/transactions", h.listTransactions)
	}

	transactions := group.Group("/transactions")
	{
		transactions.POST("/:transactionID/approve", h.approveTransaction)
		transactions.POST("/:transactionID/reject", h.rejectTransaction)
	}
}
