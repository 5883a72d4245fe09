package services

import (
	"context"

	"github.com/SscSPs/case_management_app/internal/core/domain"
)

// ApprovalWorkflowSvcFacade is the approval workflow engine: stage initiation,
// quorum evaluation and auto-action dispatch.
type ApprovalWorkflowSvcFacade interface {
	// Initiate creates a PENDING approval request for a configured stage.
	// Returns apperrors.ErrUnknownStage for a stage id outside the table.
	Initiate(ctx context.Context, caseID, stageID, requesterID, requesterName string) (*domain.ApprovalRequest, error)

	// Approve records one role's vote. On reaching full quorum it commits the
	// APPROVED status first, then runs the stage's auto-actions in order.
	Approve(ctx context.Context, approvalID, approverID, approverName string, approverRole domain.Role, comment string) (*domain.ApprovalRequest, error)

	// Reject terminally rejects the request; a single authorized role suffices.
	// The reason is mandatory.
	Reject(ctx context.Context, approvalID, rejectorID, rejectorName string, rejectorRole domain.Role, reason string) (*domain.ApprovalRequest, error)

	GetApproval(ctx context.Context, approvalID string) (*domain.ApprovalRequest, error)
	ListApprovalsByCase(ctx context.Context, caseID string) ([]domain.ApprovalRequest, error)
	// ListEligibleApprovals returns requests whose required roles include role.
	ListEligibleApprovals(ctx context.Context, role domain.Role) ([]domain.ApprovalRequest, error)
	ListRequestedApprovals(ctx context.Context, requesterID string) ([]domain.ApprovalRequest, error)
}
