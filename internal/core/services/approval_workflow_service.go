package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// approvalWorkflowService implements the staged, multi-role approval engine.
// The stage table is injected immutable at construction; the ApprovalRequest
// document is mutated only through the repository's serialized
// read-modify-write, so concurrent votes by different roles both land.
type approvalWorkflowService struct {
	BaseService
	approvalRepo portsrepo.ApprovalRepository
	caseSvc      portssvc.CaseMutatorSvc
	activitySvc  portssvc.ActivitySvcFacade
	stages       *domain.StageConfig
}

// NewApprovalWorkflowService creates a new ApprovalWorkflowService.
func NewApprovalWorkflowService(
	approvalRepo portsrepo.ApprovalRepository,
	caseSvc portssvc.CaseMutatorSvc,
	activitySvc portssvc.ActivitySvcFacade,
	stages *domain.StageConfig,
) portssvc.ApprovalWorkflowSvcFacade {
	return &approvalWorkflowService{
		approvalRepo: approvalRepo,
		caseSvc:      caseSvc,
		activitySvc:  activitySvc,
		stages:       stages,
	}
}

var _ portssvc.ApprovalWorkflowSvcFacade = (*approvalWorkflowService)(nil)

// Initiate creates a PENDING approval request for a configured stage.
func (s *approvalWorkflowService) Initiate(ctx context.Context, caseID, stageID, requesterID, requesterName string) (*domain.ApprovalRequest, error) {
	stage, ok := s.stages.Stage(stageID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownStage, stageID)
	}

	now := time.Now().UTC()
	approval := domain.ApprovalRequest{
		ApprovalID:    uuid.NewString(),
		CaseID:        caseID,
		StageID:       stage.StageID,
		StageName:     stage.Name,
		Status:        domain.ApprovalPending,
		RequesterID:   requesterID,
		RequesterName: requesterName,
		RequiredRoles: append([]domain.Role(nil), stage.RequiredRoles...),
		Approvals:     []domain.ApprovalAction{},
		Rejections:    []domain.RejectionAction{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterID,
		},
	}

	if err := s.approvalRepo.SaveApproval(ctx, approval); err != nil {
		return nil, fmt.Errorf("failed to save approval request: %w", err)
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityApprovalRequested,
		CaseID:      caseID,
		Description: fmt.Sprintf("Approval requested for stage %s", stage.Name),
		ActorID:     requesterID,
		Metadata:    map[string]string{"approval_id": approval.ApprovalID, "stage_id": stage.StageID},
	})
	s.mirror(ctx, &approval)

	s.LogInfo(ctx, "Approval request initiated",
		slog.String("approval_id", approval.ApprovalID),
		slog.String("case_id", caseID),
		slog.String("stage_id", stageID))
	return &approval, nil
}

// Approve records one role's vote. Preconditions, in order: the record must
// exist, the role must be part of the required set, and the role must not
// already have voted — one vote per role, not per person. When the vote
// completes the quorum the APPROVED status is committed first; auto-actions
// run after, so a failed auto-action is retryable without re-approving.
func (s *approvalWorkflowService) Approve(ctx context.Context, approvalID, approverID, approverName string, approverRole domain.Role, comment string) (*domain.ApprovalRequest, error) {
	now := time.Now().UTC()
	newlyApproved := false

	updated, err := s.approvalRepo.UpdateApprovalAtomic(ctx, approvalID, func(a *domain.ApprovalRequest) error {
		if a.Status == domain.ApprovalRejected {
			return fmt.Errorf("%w: approval %s is %s", apperrors.ErrApprovalNotPending, approvalID, a.Status)
		}
		if !a.RoleIsRequired(approverRole) {
			return fmt.Errorf("%w: role %s is not in the required set for stage %s",
				apperrors.ErrUnauthorizedRole, approverRole, a.StageID)
		}
		if a.HasRoleApproved(approverRole) {
			return fmt.Errorf("%w: role %s", apperrors.ErrAlreadyApprovedByRole, approverRole)
		}

		a.Approvals = append(a.Approvals, domain.ApprovalAction{
			Role:      approverRole,
			ActorID:   approverID,
			ActorName: approverName,
			Timestamp: now,
			Comment:   comment,
		})
		if a.IsFullyApproved() {
			a.Status = domain.ApprovalApproved
			newlyApproved = true
		}
		a.LastUpdatedAt = now
		a.LastUpdatedBy = approverID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityApprovalGranted,
		CaseID:      updated.CaseID,
		Description: fmt.Sprintf("Stage %s approved by role %s", updated.StageName, approverRole),
		ActorID:     approverID,
		Metadata:    map[string]string{"approval_id": approvalID, "role": string(approverRole)},
	})
	s.mirror(ctx, updated)

	if newlyApproved {
		// The APPROVED status is durably committed at this point. Auto-action
		// failures surface to the caller for retry but cannot corrupt the
		// approval record.
		if err := s.runAutoActions(ctx, updated, approverID); err != nil {
			return updated, err
		}
		s.activitySvc.Record(ctx, domain.ActivityEvent{
			Type:        domain.ActivityApprovalCompleted,
			CaseID:      updated.CaseID,
			Description: fmt.Sprintf("Stage %s fully approved", updated.StageName),
			ActorID:     approverID,
			Metadata:    map[string]string{"approval_id": approvalID},
		})
	}

	return updated, nil
}

// Reject terminally rejects the request. No quorum is needed: a single
// authorized role's rejection halts the stage. The reason is mandatory.
func (s *approvalWorkflowService) Reject(ctx context.Context, approvalID, rejectorID, rejectorName string, rejectorRole domain.Role, reason string) (*domain.ApprovalRequest, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	updated, err := s.approvalRepo.UpdateApprovalAtomic(ctx, approvalID, func(a *domain.ApprovalRequest) error {
		if a.IsTerminal() {
			return fmt.Errorf("%w: approval %s is %s", apperrors.ErrApprovalNotPending, approvalID, a.Status)
		}
		if !a.RoleIsRequired(rejectorRole) {
			return fmt.Errorf("%w: role %s is not in the required set for stage %s",
				apperrors.ErrUnauthorizedRole, rejectorRole, a.StageID)
		}

		a.Rejections = append(a.Rejections, domain.RejectionAction{
			Role:      rejectorRole,
			ActorID:   rejectorID,
			ActorName: rejectorName,
			Timestamp: now,
			Reason:    reason,
		})
		a.Status = domain.ApprovalRejected
		a.LastUpdatedAt = now
		a.LastUpdatedBy = rejectorID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityApprovalRejected,
		CaseID:      updated.CaseID,
		Description: fmt.Sprintf("Stage %s rejected by role %s: %s", updated.StageName, rejectorRole, reason),
		ActorID:     rejectorID,
		Metadata:    map[string]string{"approval_id": approvalID, "role": string(rejectorRole)},
	})
	s.mirror(ctx, updated)

	s.LogInfo(ctx, "Approval request rejected",
		slog.String("approval_id", approvalID),
		slog.String("role", string(rejectorRole)))
	return updated, nil
}

// runAutoActions executes the stage's configured side effects in order.
func (s *approvalWorkflowService) runAutoActions(ctx context.Context, approval *domain.ApprovalRequest, actorID string) error {
	stage, ok := s.stages.Stage(approval.StageID)
	if !ok {
		// Stage removed from configuration after the request was created.
		s.LogWarn(ctx, "No stage configuration for fully approved request",
			slog.String("approval_id", approval.ApprovalID),
			slog.String("stage_id", approval.StageID))
		return nil
	}

	for _, action := range stage.AutoActions {
		var err error
		switch action.Type {
		case domain.AutoActionCreateTask:
			_, err = s.caseSvc.CreateTask(ctx, approval.CaseID, action.TaskTitle, action.TaskRole, actorID)
		case domain.AutoActionSetStatus:
			err = s.caseSvc.SetStatus(ctx, approval.CaseID, action.TargetStatus, actorID)
		case domain.AutoActionConvertToProject:
			err = s.caseSvc.ConvertToProject(ctx, approval.CaseID, actorID)
		default:
			s.LogWarn(ctx, "Unknown auto-action type", slog.String("type", string(action.Type)))
			continue
		}
		if err != nil {
			s.LogError(ctx, err, "Auto-action failed after stage approval",
				slog.String("approval_id", approval.ApprovalID),
				slog.String("action_type", string(action.Type)))
			return fmt.Errorf("auto-action %s failed for stage %s: %w", action.Type, approval.StageID, err)
		}
	}
	return nil
}

// mirror copies the approval's display summary onto the case, best-effort.
func (s *approvalWorkflowService) mirror(ctx context.Context, approval *domain.ApprovalRequest) {
	summary := domain.ApprovalSummary{
		ApprovalID: approval.ApprovalID,
		StageID:    approval.StageID,
		StageName:  approval.StageName,
		Status:     approval.Status,
		UpdatedAt:  approval.LastUpdatedAt,
	}
	if err := s.caseSvc.MirrorApproval(ctx, approval.CaseID, summary); err != nil {
		s.LogWarn(ctx, "Failed to mirror approval onto case",
			slog.String("approval_id", approval.ApprovalID),
			slog.String("case_id", approval.CaseID),
			slog.String("error", err.Error()))
	}
}

// GetApproval retrieves an approval request by id.
func (s *approvalWorkflowService) GetApproval(ctx context.Context, approvalID string) (*domain.ApprovalRequest, error) {
	return s.approvalRepo.FindApprovalByID(ctx, approvalID)
}

// ListApprovalsByCase returns all approval requests for a case.
func (s *approvalWorkflowService) ListApprovalsByCase(ctx context.Context, caseID string) ([]domain.ApprovalRequest, error) {
	return s.approvalRepo.ListApprovalsByCase(ctx, caseID)
}

// ListEligibleApprovals returns requests whose required roles include role.
func (s *approvalWorkflowService) ListEligibleApprovals(ctx context.Context, role domain.Role) ([]domain.ApprovalRequest, error) {
	return s.approvalRepo.ListApprovalsByRole(ctx, role)
}

// ListRequestedApprovals returns requests initiated by the given requester.
func (s *approvalWorkflowService) ListRequestedApprovals(ctx context.Context, requesterID string) ([]domain.ApprovalRequest, error) {
	return s.approvalRepo.ListApprovalsByRequester(ctx, requesterID)
}
