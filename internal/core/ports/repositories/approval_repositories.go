package repositories

import (
	"context"

	"github.com/SscSPs/case_management_app/internal/core/domain"
)

// ApprovalRepository defines persistence operations for approval requests.
//
// UpdateApprovalAtomic is the only mutation path after creation: the
// implementation must serialize concurrent callers per approval record (row
// lock or compare-and-swap) so two roles approving at the same time both land.
// A naive read-then-overwrite would drop one vote.
type ApprovalRepository interface {
	SaveApproval(ctx context.Context, approval domain.ApprovalRequest) error
	FindApprovalByID(ctx context.Context, approvalID string) (*domain.ApprovalRequest, error)

	// UpdateApprovalAtomic loads the approval, applies mutate under exclusion,
	// and persists the result. If mutate returns an error nothing is written
	// and the error is returned unchanged. Returns apperrors.ErrNotFound if
	// the approval does not exist.
	UpdateApprovalAtomic(ctx context.Context, approvalID string, mutate func(*domain.ApprovalRequest) error) (*domain.ApprovalRequest, error)

	ListApprovalsByCase(ctx context.Context, caseID string) ([]domain.ApprovalRequest, error)
	ListApprovalsByRole(ctx context.Context, role domain.Role) ([]domain.ApprovalRequest, error)
	ListApprovalsByRequester(ctx context.Context, requesterID string) ([]domain.ApprovalRequest, error)
}
