package handlers

import (
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

// approvalHandler handles HTTP requests for the approval workflow.
type approvalHandler struct {
	approvalService portssvc.ApprovalWorkflowSvcFacade
	userService     portssvc.UserSvcFacade
}

// newApprovalHandler creates a new approvalHandler.
func newApprovalHandler(approvalService portssvc.ApprovalWorkflowSvcFacade, userService portssvc.UserSvcFacade) *approvalHandler {
	return &approvalHandler{
		approvalService: approvalService,
		userService:     userService,
	}
}

// initiateApproval godoc
// @Summary Initiate a stage approval for a case
// @Description Creates a PENDING approval request for one of the configured workflow stages
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Param   approval body dto.InitiateApprovalRequest true "Stage to initiate"
// @Success 201 {object} dto.ApprovalResponse "The created approval request"
// @Failure 400 {object} map[string]string "Invalid request format or unknown stage"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to initiate approval"
// @Router /cases/{caseID}/approvals [post]
func (h *approvalHandler) initiateApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	req := dto.InitiateApprovalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for initiateApproval", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	approval, err := h.approvalService.Initiate(c.Request.Context(), caseID, req.StageID, actor.UserID, actor.Name)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnknownStage):
			logger.Warn("Unknown workflow stage", slog.String("stage_id", req.StageID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		default:
			logger.Error("Failed to initiate approval", slog.String("error", err.Error()), slog.String("case_id", caseID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate approval"})
		}
		return
	}

	logger.Info("Approval initiated", slog.String("approval_id", approval.ApprovalID), slog.String("stage_id", req.StageID))
	c.JSON(http.StatusCreated, dto.ToApprovalResponse(approval))
}

// approve godoc
// @Summary Record one role's approval vote
// @Description Records the caller's role vote; on full required-role coverage the request is approved and the stage's automatic actions run
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   approvalID path string true "Approval Request ID"
// @Param   vote body dto.ApproveApprovalRequest false "Optional comment"
// @Success 200 {object} dto.ApprovalResponse "The updated approval request"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller's role is not required on this stage"
// @Failure 404 {object} map[string]string "Approval request not found"
// @Failure 409 {object} map[string]string "Already voted or request no longer pending"
// @Failure 500 {object} map[string]string "Failed to approve"
// @Router /approvals/{approvalID}/approve [post]
func (h *approvalHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	approvalID := c.Param("approvalID")

	req := dto.ApproveApprovalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for approve", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	approval, err := h.approvalService.Approve(c.Request.Context(), approvalID, actor.UserID, actor.Name, actor.Role, req.Comment)
	if err != nil {
		h.writeVoteError(c, logger, approvalID, err, "Failed to approve")
		return
	}

	logger.Info("Approval vote recorded",
		slog.String("approval_id", approvalID),
		slog.String("role", string(actor.Role)),
		slog.String("status", string(approval.Status)))
	c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

// reject godoc
// @Summary Terminally reject an approval request
// @Description A single authorized role's rejection moves the request to REJECTED; the reason is mandatory
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   approvalID path string true "Approval Request ID"
// @Param   rejection body dto.RejectApprovalRequest true "Mandatory reason"
// @Success 200 {object} dto.ApprovalResponse "The rejected approval request"
// @Failure 400 {object} map[string]string "Invalid request format or missing reason"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller's role is not required on this stage"
// @Failure 404 {object} map[string]string "Approval request not found"
// @Failure 409 {object} map[string]string "Request no longer pending"
// @Failure 500 {object} map[string]string "Failed to reject"
// @Router /approvals/{approvalID}/reject [post]
func (h *approvalHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	approvalID := c.Param("approvalID")

	req := dto.RejectApprovalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	approval, err := h.approvalService.Reject(c.Request.Context(), approvalID, actor.UserID, actor.Name, actor.Role, req.Reason)
	if err != nil {
		h.writeVoteError(c, logger, approvalID, err, "Failed to reject")
		return
	}

	logger.Info("Approval rejected", slog.String("approval_id", approvalID), slog.String("role", string(actor.Role)))
	c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

// writeVoteError maps the workflow engine's vote errors to HTTP statuses.
func (h *approvalHandler) writeVoteError(c *gin.Context, logger *slog.Logger, approvalID string, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Approval request not found"})
	case errors.Is(err, apperrors.ErrUnauthorizedRole):
		logger.Warn("Vote by unauthorized role", slog.String("approval_id", approvalID), slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyApprovedByRole), errors.Is(err, apperrors.ErrApprovalNotPending):
		logger.Warn("Vote conflict", slog.String("approval_id", approvalID), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()), slog.String("approval_id", approvalID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// getApproval godoc
// @Summary Get an approval request
// @Tags approvals
// @Produce  json
// @Param   approvalID path string true "Approval Request ID"
// @Success 200 {object} dto.ApprovalResponse "The approval request"
// @Failure 404 {object} map[string]string "Approval request not found"
// @Failure 500 {object} map[string]string "Failed to retrieve approval"
// @Router /approvals/{approvalID} [get]
func (h *approvalHandler) getApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	approvalID := c.Param("approvalID")

	approval, err := h.approvalService.GetApproval(c.Request.Context(), approvalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Approval request not found"})
			return
		}
		logger.Error("Failed to get approval", slog.String("error", err.Error()), slog.String("approval_id", approvalID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve approval"})
		return
	}

	c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

// listApprovalsByCase godoc
// @Summary List approval requests for a case
// @Tags approvals
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {array} dto.ApprovalResponse "Approval requests, oldest first"
// @Failure 500 {object} map[string]string "Failed to list approvals"
// @Router /cases/{caseID}/approvals [get]
func (h *approvalHandler) listApprovalsByCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	approvals, err := h.approvalService.ListApprovalsByCase(c.Request.Context(), caseID)
	if err != nil {
		logger.Error("Failed to list approvals for case", slog.String("error", err.Error()), slog.String("case_id", caseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list approvals"})
		return
	}

	c.JSON(http.StatusOK, dto.ToApprovalResponses(approvals))
}

// listApprovals godoc
// @Summary List approval requests for the caller
// @Description view=eligible (default) returns requests whose required roles include the caller's role; view=requested returns requests the caller initiated
// @Tags approvals
// @Produce  json
// @Param   view query string false "eligible or requested" default(eligible)
// @Success 200 {array} dto.ApprovalResponse "Approval requests, newest first"
// @Failure 400 {object} map[string]string "Unknown view"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list approvals"
// @Router /approvals [get]
func (h *approvalHandler) listApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}

	view := c.DefaultQuery("view", "eligible")
	var approvals []domain.ApprovalRequest
	var err error
	switch view {
	case "eligible":
		approvals, err = h.approvalService.ListEligibleApprovals(c.Request.Context(), actor.Role)
	case "requested":
		approvals, err = h.approvalService.ListRequestedApprovals(c.Request.Context(), actor.UserID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown view, expected eligible or requested"})
		return
	}
	if err != nil {
		logger.Error("Failed to list approvals", slog.String("error", err.Error()), slog.String("view", view))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list approvals"})
		return
	}

	c.JSON(http.StatusOK, dto.ToApprovalResponses(approvals))
}

// registerApprovalRoutes registers approval workflow routes.
func registerApprovalRoutes(group *gin.RouterGroup, approvalService portssvc.ApprovalWorkflowSvcFacade, userService portssvc.UserSvcFacade) {
	h := newApprovalHandler(approvalService, userService)

	approvals := group.Group("/approvals")
	{
		approvals.GET("", h.listApprovals)
		approvals.GET("/:approvalID", h.getApproval)
		approvals.POST("/:approvalID/approve", h.approve)
		approvals.POST("/:approvalID/reject", h.reject)
	}
}
