package services

import (
	"context"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/SscSPs/case_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

// BudgetSvcFacade is the cost-center ledger engine. All budget mutation goes
// through it; no other component writes budget fields directly.
type BudgetSvcFacade interface {
	GetBudget(ctx context.Context, projectID string) (*domain.ProjectBudget, error)

	// SetTotalBudget upserts the project total (must be >= 0) and mirrors it
	// onto the case record best-effort.
	SetTotalBudget(ctx context.Context, projectID string, amount decimal.Decimal, actorID string) error

	// AllocateCostCenter appends a named bucket with zero spend. Over-allocation
	// against the total budget is allowed.
	AllocateCostCenter(ctx context.Context, projectID, name string, amount decimal.Decimal, actorID string) (*domain.CostCenterItem, error)
	DeallocateCostCenter(ctx context.Context, projectID, costCenterID, actorID string) error

	// RecordTransaction posts a ledger entry. Privileged roles (finance,
	// super-admin) are auto-approved and hit the aggregates immediately;
	// everyone else lands in the pending bucket for review.
	RecordTransaction(ctx context.Context, projectID string, req dto.CreateTransactionRequest, actorID string, actorRole domain.Role) (*domain.Transaction, error)

	// ApproveTransaction / RejectTransaction resolve a pending entry. Only
	// privileged roles may review. Both transitions are terminal.
	ApproveTransaction(ctx context.Context, transactionID, approverID string, approverRole domain.Role) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, transactionID, approverID string, approverRole domain.Role) (*domain.Transaction, error)

	ListTransactions(ctx context.Context, projectID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
