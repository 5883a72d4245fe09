package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepository defines persistence operations for project budgets, cost
// centers and ledger transactions.
//
// Aggregate scalars (received/spent/pending) are applied as atomic SQL
// increments; per-cost-center spend lives in its own table row so it gets the
// same treatment instead of an array read-modify-write. Transaction status
// transitions and their aggregate deltas share one database transaction,
// guarded by the current status, so a retried call can never double-apply.
type BudgetRepository interface {
	// FindBudgetByProjectID returns the budget document with its cost centers.
	// A missing budget is created zero-valued on first read.
	FindBudgetByProjectID(ctx context.Context, projectID string) (*domain.ProjectBudget, error)

	UpsertTotalBudget(ctx context.Context, projectID string, amount decimal.Decimal, now time.Time) error

	InsertCostCenter(ctx context.Context, item domain.CostCenterItem) error
	// DeleteCostCenter returns apperrors.ErrNotFound if no such cost center
	// exists on the project. Historical transactions keep their category.
	DeleteCostCenter(ctx context.Context, projectID, costCenterID string) error

	// SaveTransaction inserts the transaction and applies delta to the budget
	// aggregates in the same database transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction, delta domain.BudgetDelta) error

	// TransitionTransaction moves a pending transaction to a terminal status
	// and applies delta atomically. Returns apperrors.ErrNotPending if the
	// transaction is not currently pending, apperrors.ErrNotFound if absent.
	TransitionTransaction(ctx context.Context, transactionID string, to domain.TransactionStatus, approverID string, at time.Time, delta domain.BudgetDelta) error

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// ListTransactionsByProject returns transactions newest-first with cursor
	// pagination. The returned token is nil when no further page exists.
	ListTransactionsByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
