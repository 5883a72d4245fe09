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
	"github.com/SscSPs/case_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// privilegedRoles is the allow-list whose transactions are approved at
// creation and who may review pending transactions.
var privilegedRoles = map[domain.Role]struct{}{
	domain.RoleFinance:    {},
	domain.RoleSuperAdmin: {},
}

// IsPrivilegedRole reports whether the role may auto-approve and review
// ledger transactions.
func IsPrivilegedRole(role domain.Role) bool {
	_, ok := privilegedRoles[role]
	return ok
}

// budgetService is the cost-center ledger engine. It computes the aggregate
// deltas for every transaction lifecycle event; the repository applies each
// delta atomically with the transaction write so the cached aggregates stay
// reconciled with the log.
type budgetService struct {
	BaseService
	budgetRepo portsrepo.BudgetRepository
	caseSvc    portssvc.CaseSvcFacade
	activitySvc portssvc.ActivitySvcFacade
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo portsrepo.BudgetRepository, caseSvc portssvc.CaseSvcFacade, activitySvc portssvc.ActivitySvcFacade) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:  budgetRepo,
		caseSvc:     caseSvc,
		activitySvc: activitySvc,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// GetBudget returns the budget document, creating a zero-valued one on first read.
func (s *budgetService) GetBudget(ctx context.Context, projectID string) (*domain.ProjectBudget, error) {
	return s.budgetRepo.FindBudgetByProjectID(ctx, projectID)
}

// SetTotalBudget upserts the project's total budget and mirrors it onto the
// case record for dashboard reads.
func (s *budgetService) SetTotalBudget(ctx context.Context, projectID string, amount decimal.Decimal, actorID string) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: total budget must not be negative", apperrors.ErrInvalidAmount)
	}

	now := time.Now().UTC()
	if err := s.budgetRepo.UpsertTotalBudget(ctx, projectID, amount, now); err != nil {
		return fmt.Errorf("failed to set total budget for project %s: %w", projectID, err)
	}

	// Denormalized summary for the case dashboard; best-effort only.
	if err := s.caseSvc.MirrorBudgetTotal(ctx, projectID, amount); err != nil {
		s.LogWarn(ctx, "Failed to mirror budget total onto case",
			slog.String("project_id", projectID),
			slog.String("error", err.Error()))
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityBudgetSet,
		CaseID:      projectID,
		Description: fmt.Sprintf("Total budget set to %s", amount.String()),
		ActorID:     actorID,
	})
	return nil
}

// AllocateCostCenter appends a named budget bucket with zero spend.
// Over-allocation against the total budget is deliberately permitted; the
// read model flags it for UI warnings.
func (s *budgetService) AllocateCostCenter(ctx context.Context, projectID, name string, amount decimal.Decimal, actorID string) (*domain.CostCenterItem, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: cost center name is required", apperrors.ErrValidation)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: allocation must not be negative", apperrors.ErrInvalidAmount)
	}

	// Ensure the budget document exists before attaching a bucket to it.
	if _, err := s.budgetRepo.FindBudgetByProjectID(ctx, projectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := domain.CostCenterItem{
		CostCenterID:    uuid.NewString(),
		ProjectID:       projectID,
		Name:            name,
		AllocatedAmount: amount,
		SpentAmount:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.budgetRepo.InsertCostCenter(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to allocate cost center %q: %w", name, err)
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityCostCenterAdded,
		CaseID:      projectID,
		Description: fmt.Sprintf("Cost center %q allocated %s", name, amount.String()),
		ActorID:     actorID,
		Metadata:    map[string]string{"cost_center_id": item.CostCenterID},
	})
	return &item, nil
}

// DeallocateCostCenter removes the bucket. Historical transactions keep their
// category string; new transactions citing the removed name fall through to
// unattributed spend, still counted at project level.
func (s *budgetService) DeallocateCostCenter(ctx context.Context, projectID, costCenterID, actorID string) error {
	if err := s.budgetRepo.DeleteCostCenter(ctx, projectID, costCenterID); err != nil {
		return err
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityCostCenterRemoved,
		CaseID:      projectID,
		Description: "Cost center removed",
		ActorID:     actorID,
		Metadata:    map[string]string{"cost_center_id": costCenterID},
	})
	return nil
}

// RecordTransaction posts a ledger entry. Privileged creators are approved
// immediately and hit the received/spent aggregates; everyone else lands in
// the pending bucket, which counts credits and debits alike.
func (s *budgetService) RecordTransaction(ctx context.Context, projectID string, req dto.CreateTransactionRequest, actorID string, actorRole domain.Role) (*domain.Transaction, error) {
	now := time.Now().UTC()

	category := req.Category
	if category == "" {
		category = domain.GeneralCategory
	}

	status := domain.TxnPending
	if IsPrivilegedRole(actorRole) {
		status = domain.TxnApproved
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		ProjectID:     projectID,
		Type:          req.Type,
		Category:      category,
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          req.Date,
		Status:        status,
		CreatedByRole: actorRole,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, err.Error())
	}
	if status == domain.TxnApproved {
		txn.ApprovedBy = &actorID
		txn.ApprovedAt = &now
	}

	// Ensure the budget document exists so the delta has a row to land on.
	if _, err := s.budgetRepo.FindBudgetByProjectID(ctx, projectID); err != nil {
		return nil, err
	}

	var delta domain.BudgetDelta
	if status == domain.TxnApproved {
		delta = s.approvedDelta(&txn)
	} else {
		delta = domain.BudgetDelta{Pending: txn.Amount}
	}

	if err := s.budgetRepo.SaveTransaction(ctx, txn, delta); err != nil {
		return nil, fmt.Errorf("failed to save transaction for project %s: %w", projectID, err)
	}

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityTransactionRecorded,
		CaseID:      projectID,
		Description: fmt.Sprintf("%s of %s recorded (%s)", txn.Type, txn.Amount.String(), txn.Status),
		ActorID:     actorID,
		Metadata:    map[string]string{"transaction_id": txn.TransactionID, "category": category},
	})

	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("project_id", projectID),
		slog.String("status", string(status)))
	return &txn, nil
}

// ApproveTransaction moves a pending entry to approved, applying the same
// aggregate increments as the auto-approved path and releasing the pending
// bucket. The status guard and the delta share one database transaction, so
// a retried call cannot double-count.
func (s *budgetService) ApproveTransaction(ctx context.Context, transactionID, approverID string, approverRole domain.Role) (*domain.Transaction, error) {
	if !IsPrivilegedRole(approverRole) {
		return nil, fmt.Errorf("%w: role %s may not review transactions", apperrors.ErrForbidden, approverRole)
	}

	txn, err := s.budgetRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.TxnPending {
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrNotPending, transactionID, txn.Status)
	}

	delta := s.approvedDelta(txn)
	delta.Pending = txn.Amount.Neg()

	now := time.Now().UTC()
	if err := s.budgetRepo.TransitionTransaction(ctx, transactionID, domain.TxnApproved, approverID, now, delta); err != nil {
		return nil, err
	}

	txn.Status = domain.TxnApproved
	txn.ApprovedBy = &approverID
	txn.ApprovedAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = approverID

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityTransactionApproved,
		CaseID:      txn.ProjectID,
		Description: fmt.Sprintf("%s of %s approved", txn.Type, txn.Amount.String()),
		ActorID:     approverID,
		Metadata:    map[string]string{"transaction_id": transactionID},
	})
	return txn, nil
}

// RejectTransaction moves a pending entry to rejected. Only the pending
// bucket is released; a rejected transaction never contributes to
// spent or received.
func (s *budgetService) RejectTransaction(ctx context.Context, transactionID, approverID string, approverRole domain.Role) (*domain.Transaction, error) {
	if !IsPrivilegedRole(approverRole) {
		return nil, fmt.Errorf("%w: role %s may not review transactions", apperrors.ErrForbidden, approverRole)
	}

	txn, err := s.budgetRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.TxnPending {
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrNotPending, transactionID, txn.Status)
	}

	delta := domain.BudgetDelta{Pending: txn.Amount.Neg()}

	now := time.Now().UTC()
	if err := s.budgetRepo.TransitionTransaction(ctx, transactionID, domain.TxnRejected, approverID, now, delta); err != nil {
		return nil, err
	}

	txn.Status = domain.TxnRejected
	txn.ApprovedBy = &approverID
	txn.ApprovedAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = approverID

	s.activitySvc.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityTransactionRejected,
		CaseID:      txn.ProjectID,
		Description: fmt.Sprintf("%s of %s rejected", txn.Type, txn.Amount.String()),
		ActorID:     approverID,
		Metadata:    map[string]string{"transaction_id": transactionID},
	})
	return txn, nil
}

// approvedDelta computes the aggregate increments an approved transaction
// applies: credit feeds received, debit feeds spent plus the matching cost
// center's spend cache.
func (s *budgetService) approvedDelta(txn *domain.Transaction) domain.BudgetDelta {
	if txn.Type == domain.Credit {
		return domain.BudgetDelta{Received: txn.Amount}
	}
	return domain.BudgetDelta{
		Spent:           txn.Amount,
		CostCenterName:  txn.Category,
		CostCenterSpent: txn.Amount,
	}
}

// ListTransactions returns one page of the project's transaction history.
func (s *budgetService) ListTransactions(ctx context.Context, projectID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 25
	}
	if limit > 100 {
		limit = 100
	}

	txns, nextToken, err := s.budgetRepo.ListTransactionsByProject(ctx, projectID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for project %s: %w", projectID, err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}
