package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/SscSPs/case_management_app/internal/dto"
	"github.com/SscSPs/case_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// caseHandler handles HTTP requests for cases, tasks and the activity feed.
type caseHandler struct {
	caseService     portssvc.CaseSvcFacade
	activityService portssvc.ActivitySvcFacade
	userService     portssvc.UserSvcFacade
}

// newCaseHandler creates a new caseHandler.
func newCaseHandler(caseService portssvc.CaseSvcFacade, activityService portssvc.ActivitySvcFacade, userService portssvc.UserSvcFacade) *caseHandler {
	return &caseHandler{
		caseService:     caseService,
		activityService: activityService,
		userService:     userService,
	}
}

// createCase godoc
// @Summary Register a new sales lead
// @Tags cases
// @Accept  json
// @Produce  json
// @Param   case body dto.CreateCaseRequest true "Case"
// @Success 201 {object} dto.CaseResponse "The created case"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create case"
// @Router /cases [post]
func (h *caseHandler) createCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateCaseRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createCase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	created, err := h.caseService.CreateCase(c.Request.Context(), req.Title, req.CustomerName, actor.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create case", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create case"})
		return
	}

	logger.Info("Case created", slog.String("case_id", created.CaseID))
	c.JSON(http.StatusCreated, dto.ToCaseResponse(created))
}

// getCase godoc
// @Summary Get a case with its approval mirror and budget summary
// @Tags cases
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {object} dto.CaseResponse "The case"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to retrieve case"
// @Router /cases/{caseID} [get]
func (h *caseHandler) getCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	found, err := h.caseService.GetCase(c.Request.Context(), caseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
			return
		}
		logger.Error("Failed to get case", slog.String("error", err.Error()), slog.String("case_id", caseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve case"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCaseResponse(found))
}

// setCaseStatus godoc
// @Summary Move a case to a new lifecycle status
// @Tags cases
// @Accept  json
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   status body dto.SetCaseStatusRequest true "Target status"
// @Success 200 {object} dto.CaseResponse "The updated case"
// @Failure 400 {object} map[string]string "Invalid request format or unknown status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to update status"
// @Router /cases/{caseID}/status [put]
func (h *caseHandler) setCaseStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	req := dto.SetCaseStatusRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for setCaseStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	if err := h.caseService.SetStatus(c.Request.Context(), caseID, domain.CaseStatus(req.Status), actor.UserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		default:
			logger.Error("Failed to update case status", slog.String("error", err.Error()), slog.String("case_id", caseID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	h.respondWithCase(c, caseID)
}

// verifyPayment godoc
// @Summary Mark the customer payment as verified
// @Description Accounts, finance and super-admin only. Verification is one-way; re-verifying is a no-op
// @Tags cases
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {object} dto.CaseResponse "The updated case"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller may not verify payments"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to verify payment"
// @Router /cases/{caseID}/verify-payment [post]
func (h *caseHandler) verifyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	if err := h.caseService.VerifyPayment(c.Request.Context(), caseID, actor.UserID, actor.Role); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("Payment verification by unauthorized role",
				slog.String("case_id", caseID), slog.String("role", string(actor.Role)))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		default:
			logger.Error("Failed to verify payment", slog.String("error", err.Error()), slog.String("case_id", caseID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		}
		return
	}

	logger.Info("Payment verified", slog.String("case_id", caseID), slog.String("verified_by", actor.UserID))
	h.respondWithCase(c, caseID)
}

// convertCase godoc
// @Summary Convert a case into a billable project
// @Description Requires a verified payment and WAITING_FOR_PLANNING status. There is no override for either precondition
// @Tags cases
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {object} dto.CaseResponse "The converted case"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Payment not verified or wrong status"
// @Failure 500 {object} map[string]string "Failed to convert case"
// @Router /cases/{caseID}/convert [post]
func (h *caseHandler) convertCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	if err := h.caseService.ConvertToProject(c.Request.Context(), caseID, actor.UserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		case errors.Is(err, apperrors.ErrPaymentNotVerified), errors.Is(err, apperrors.ErrInvalidStatus):
			logger.Warn("Conversion gate rejected", slog.String("case_id", caseID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to convert case", slog.String("error", err.Error()), slog.String("case_id", caseID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert case"})
		}
		return
	}

	logger.Info("Case converted to project", slog.String("case_id", caseID))
	h.respondWithCase(c, caseID)
}

// listTasks godoc
// @Summary List a case's follow-on tasks
// @Tags cases
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {array} dto.TaskResponse "Tasks, oldest first"
// @Failure 500 {object} map[string]string "Failed to list tasks"
// @Router /cases/{caseID}/tasks [get]
func (h *caseHandler) listTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	tasks, err := h.caseService.ListTasks(c.Request.Context(), caseID)
	if err != nil {
		logger.Error("Failed to list tasks", slog.String("error", err.Error()), slog.String("case_id", caseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponses(tasks))
}

// listActivity godoc
// @Summary List a case's recent activity, newest first
// @Tags cases
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   limit query int false "Page size (default 50, max 100)"
// @Success 200 {array} dto.ActivityEventResponse "Activity events"
// @Failure 500 {object} map[string]string "Failed to list activity"
// @Router /cases/{caseID}/activity [get]
func (h *caseHandler) listActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	events, err := h.activityService.ListByCase(c.Request.Context(), caseID, limit)
	if err != nil {
		logger.Error("Failed to list activity", slog.String("error", err.Error()), slog.String("case_id", caseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list activity"})
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityEventResponses(events))
}

// respondWithCase reloads the case and writes it as the mutation response.
func (h *caseHandler) respondWithCase(c *gin.Context, caseID string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	found, err := h.caseService.GetCase(c.Request.Context(), caseID)
	if err != nil {
		logger.Error("Failed to reload case", slog.String("error", err.Error()), slog.String("case_id", caseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve case"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCaseResponse(found))
}

// registerCaseRoutes registers case, task and activity routes, plus the
// case-scoped approval routes.
func registerCaseRoutes(
	group *gin.RouterGroup,
	caseService portssvc.CaseSvcFacade,
	activityService portssvc.ActivitySvcFacade,
	approvalService portssvc.ApprovalWorkflowSvcFacade,
	userService portssvc.UserSvcFacade,
) {
	h := newCaseHandler(caseService, activityService, userService)
	approvals := newApprovalHandler(approvalService, userService)

	cases := group.Group("/cases")
	{
		cases.POST("", h.createCase)
		cases.GET("/:caseID", h.getCase)
		cases.PUT("/:caseID/status", h.setCaseStatus)
		cases.POST("/:caseID/verify-payment", h.verifyPayment)
		cases.POST("/:caseID/convert", h.convertCase)
		cases.GET("/:caseID/tasks", h.listTasks)
		cases.GET("/:caseID/activity", h.listActivity)

		cases.POST("/:caseID/approvals", approvals.initiateApproval)
		cases.GET("/:caseID/approvals", approvals.listApprovalsByCase)
	}
}
