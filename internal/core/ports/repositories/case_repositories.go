package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CaseRepository defines persistence operations for cases, their follow-on
// tasks and the denormalized mirrors.
type CaseRepository interface {
	SaveCase(ctx context.Context, c domain.Case) error
	FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error)
	UpdateCaseStatus(ctx context.Context, caseID string, status domain.CaseStatus, updatedBy string, now time.Time) error

	// MarkPaymentVerified flips the payment gate flag. Verification is
	// one-way; re-verifying an already verified case is a no-op.
	MarkPaymentVerified(ctx context.Context, caseID, verifiedBy string, at time.Time) error

	// MarkCaseConverted flips isProject and stamps the project start. The
	// payment-gate preconditions are re-checked inside the UPDATE itself so a
	// concurrent change between the service's read and this write can never
	// produce a partially converted case. Returns apperrors.ErrInvalidStatus
	// when the guarded update matches no row even though the case exists.
	MarkCaseConverted(ctx context.Context, caseID string, startedAt time.Time, updatedBy string) error

	// Mirror writes are best-effort read caches; callers log failures and move on.
	MirrorApprovalSummary(ctx context.Context, caseID string, summary domain.ApprovalSummary) error
	MirrorBudgetTotal(ctx context.Context, caseID string, total decimal.Decimal) error

	SaveTask(ctx context.Context, task domain.Task) error
	ListTasksByCase(ctx context.Context, caseID string) ([]domain.Task, error)
}
