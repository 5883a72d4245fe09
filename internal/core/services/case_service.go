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
	"github.com/shopspring/decimal"
)

// caseService applies case mutations for the approval workflow and owns the
// payment-gated case-to-project conversion.
type caseService struct {
	BaseService
	caseRepo    portsrepo.CaseRepository
	activitySvc portssvc.ActivitySvcFacade
}

// NewCaseService creates a new CaseService.
func NewCaseService(caseRepo portsrepo.CaseRepository, activitySvc portssvc.ActivitySvcFacade) portssvc.CaseSvcFacade {
	return &caseService{
		caseRepo:    caseRepo,
		activitySvc: activitySvc,
	}
}

var _ portssvc.CaseSvcFacade = (*caseService)(nil)

// paymentReviewRoles may flip the payment gate flag.
var paymentReviewRoles = map[domain.Role]struct{}{
	domain.RoleAccounts:   {},
	domain.RoleFinance:    {},
	domain.RoleSuperAdmin: {},
}

// CreateCase registers a new sales lead.
func (s *caseService) CreateCase(ctx context.Context, title, customerName, actorID string) (*domain.Case, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: case title is required", apperrors.ErrValidation)
	}
	if customerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	c := domain.Case{
		CaseID:       uuid.NewString(),
		Title:        title,
		CustomerName: customerName,
		Status:       domain.StatusNewLead,
		BudgetTotal:  decimal.Zero,
		Approvals:    []domain.ApprovalSummary{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.caseRepo.SaveCase(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save case: %w", err)
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityCaseCreated,
		CaseID:      c.CaseID,
		Description: fmt.Sprintf("Case created for customer %s", customerName),
		ActorID:     actorID,
	})
	return &c, nil
}

// GetCase retrieves a case by id.
func (s *caseService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return s.caseRepo.FindCaseByID(ctx, caseID)
}

// VerifyPayment flips the payment gate flag. Only accounts, finance or
// super-admin reviewers may verify; verification is one-way and idempotent.
func (s *caseService) VerifyPayment(ctx context.Context, caseID, actorID string, actorRole domain.Role) error {
	if _, ok := paymentReviewRoles[actorRole]; !ok {
		return fmt.Errorf("%w: role %s cannot verify payments", apperrors.ErrForbidden, actorRole)
	}

	now := time.Now().UTC()
	if err := s.caseRepo.MarkPaymentVerified(ctx, caseID, actorID, now); err != nil {
		return err
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityPaymentVerified,
		CaseID:      caseID,
		Description: "Customer payment verified",
		ActorID:     actorID,
	})
	return nil
}

// SetStatus moves a case to a new named status.
func (s *caseService) SetStatus(ctx context.Context, caseID string, status domain.CaseStatus, actorID string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown case status %q", apperrors.ErrValidation, status)
	}

	now := time.Now().UTC()
	if err := s.caseRepo.UpdateCaseStatus(ctx, caseID, status, actorID, now); err != nil {
		return fmt.Errorf("failed to update case %s status: %w", caseID, err)
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityStatusChanged,
		CaseID:      caseID,
		Description: fmt.Sprintf("Case status changed to %s", status),
		ActorID:     actorID,
		Metadata:    map[string]string{"status": string(status)},
	})
	return nil
}

// CreateTask creates a follow-on task for the case.
func (s *caseService) CreateTask(ctx context.Context, caseID, title string, role domain.Role, actorID string) (*domain.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	task := domain.Task{
		TaskID:       uuid.NewString(),
		CaseID:       caseID,
		Title:        title,
		AssignedRole: role,
		Status:       domain.TaskOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.caseRepo.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task for case %s: %w", caseID, err)
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityTaskCreated,
		CaseID:      caseID,
		Description: fmt.Sprintf("Task created: %s", title),
		ActorID:     actorID,
		Metadata:    map[string]string{"task_id": task.TaskID, "assigned_role": string(role)},
	})
	return &task, nil
}

// ConvertToProject converts a case into a billable project. Both gate
// preconditions are checked before any write, in order: payment verification
// first, then the waiting-for-planning status. Failure leaves the case
// untouched. There is no override path through this operation for any role.
func (s *caseService) ConvertToProject(ctx context.Context, caseID string, actorID string) error {
	c, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		return err
	}

	if !c.Financial.PaymentVerified {
		return fmt.Errorf("%w: case %s", apperrors.ErrPaymentNotVerified, caseID)
	}
	if c.Status != domain.StatusWaitingForPlanning {
		return fmt.Errorf("%w: case %s is %s, expected %s",
			apperrors.ErrInvalidStatus, caseID, c.Status, domain.StatusWaitingForPlanning)
	}

	// The repository re-checks both preconditions inside the guarded UPDATE,
	// so a concurrent change between the read above and this write cannot
	// produce a partial conversion.
	startedAt := time.Now().UTC()
	if err := s.caseRepo.MarkCaseConverted(ctx, caseID, startedAt, actorID); err != nil {
		return err
	}

	s.LogInfo(ctx, "Case converted to project", slog.String("case_id", caseID))
	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityCaseConverted,
		CaseID:      caseID,
		Description: "Case converted to project",
		ActorID:     actorID,
	})
	return nil
}

// MirrorApproval updates the denormalized approval entry on the case.
// Best-effort: the authoritative record already exists, so callers log and
// continue on failure.
func (s *caseService) MirrorApproval(ctx context.Context, caseID string, summary domain.ApprovalSummary) error {
	return s.caseRepo.MirrorApprovalSummary(ctx, caseID, summary)
}

// MirrorBudgetTotal updates the denormalized budget summary on the case.
func (s *caseService) MirrorBudgetTotal(ctx context.Context, caseID string, total decimal.Decimal) error {
	return s.caseRepo.MirrorBudgetTotal(ctx, caseID, total)
}

// ListTasks returns the follow-on tasks for a case.
func (s *caseService) ListTasks(ctx context.Context, caseID string) ([]domain.Task, error) {
	return s.caseRepo.ListTasksByCase(ctx, caseID)
}
