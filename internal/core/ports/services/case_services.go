package services

import (
	"context"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CaseMutatorSvc is the narrow surface the approval workflow engine needs to
// execute auto-actions and mirror approval state. Keeping it small stops the
// workflow engine from reaching into case internals.
type CaseMutatorSvc interface {
	SetStatus(ctx context.Context, caseID string, status domain.CaseStatus, actorID string) error
	CreateTask(ctx context.Context, caseID, title string, role domain.Role, actorID string) (*domain.Task, error)

	// ConvertToProject applies the hard payment gate: paymentVerified first,
	// then status == WAITING_FOR_PLANNING, both checked before any write.
	// There is no override path.
	ConvertToProject(ctx context.Context, caseID string, actorID string) error

	// MirrorApproval is a best-effort denormalized copy; callers log failures.
	MirrorApproval(ctx context.Context, caseID string, summary domain.ApprovalSummary) error
}

// CaseSvcFacade is the full case surface exposed to handlers.
type CaseSvcFacade interface {
	CaseMutatorSvc

	CreateCase(ctx context.Context, title, customerName, actorID string) (*domain.Case, error)
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)

	// VerifyPayment flips the payment gate flag. Restricted to the accounts
	// and finance review roles; re-verification is a no-op.
	VerifyPayment(ctx context.Context, caseID, actorID string, actorRole domain.Role) error

	ListTasks(ctx context.Context, caseID string) ([]domain.Task, error)
	// MirrorBudgetTotal is the budget engine's best-effort summary write.
	MirrorBudgetTotal(ctx context.Context, caseID string, total decimal.Decimal) error
}
