package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/case_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxBudgetRepository persists project budgets, cost centers and ledger
// transactions. Aggregate scalars are applied as single-statement SQL
// increments; cost centers live in their own table so per-bucket spend is a
// single-row increment too, never an array rewrite.
type PgxBudgetRepository struct {
	pool *pgxpool.Pool
}

// NewPgxBudgetRepository creates a new repository for budget and transaction data.
func NewPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{pool: pool}
}

// FindBudgetByProjectID returns the budget document with its cost centers,
// creating a zero-valued document on first read.
func (r *PgxBudgetRepository) FindBudgetByProjectID(ctx context.Context, projectID string) (*domain.ProjectBudget, error) {
	// Lazy creation keeps the read path a single round trip afterwards.
	ensureQuery := `
		INSERT INTO project_budgets (project_id, total_budget, received_amount, spent_amount, pending_amount, last_updated_at)
		VALUES ($1, 0, 0, 0, 0, $2)
		ON CONFLICT (project_id) DO NOTHING;
	`
	if _, err := r.pool.Exec(ctx, ensureQuery, projectID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to ensure budget for project %s: %w", projectID, err)
	}

	var budget domain.ProjectBudget
	query := `
		SELECT project_id, total_budget, received_amount, spent_amount, pending_amount, last_updated_at
		FROM project_budgets
		WHERE project_id = $1;
	`
	err := r.pool.QueryRow(ctx, query, projectID).Scan(
		&budget.ProjectID,
		&budget.TotalBudget,
		&budget.ReceivedAmount,
		&budget.SpentAmount,
		&budget.PendingAmount,
		&budget.LastUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget for project %s: %w", projectID, err)
	}

	centers, err := r.listCostCenters(ctx, projectID)
	if err != nil {
		return nil, err
	}
	budget.CostCenters = centers
	return &budget, nil
}

func (r *PgxBudgetRepository) listCostCenters(ctx context.Context, projectID string) ([]domain.CostCenterItem, error) {
	query := `
		SELECT cost_center_id, project_id, name, allocated_amount, spent_amount,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM cost_centers
		WHERE project_id = $1
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost centers for project %s: %w", projectID, err)
	}
	defer rows.Close()

	centers := []domain.CostCenterItem{}
	for rows.Next() {
		var cc domain.CostCenterItem
		if err := rows.Scan(
			&cc.CostCenterID,
			&cc.ProjectID,
			&cc.Name,
			&cc.AllocatedAmount,
			&cc.SpentAmount,
			&cc.CreatedAt,
			&cc.CreatedBy,
			&cc.LastUpdatedAt,
			&cc.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cost center row: %w", err)
		}
		centers = append(centers, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost center rows: %w", err)
	}
	return centers, nil
}

// UpsertTotalBudget sets the project's total budget, creating the document if needed.
func (r *PgxBudgetRepository) UpsertTotalBudget(ctx context.Context, projectID string, amount decimal.Decimal, now time.Time) error {
	query := `
		INSERT INTO project_budgets (project_id, total_budget, received_amount, spent_amount, pending_amount, last_updated_at)
		VALUES ($1, $2, 0, 0, 0, $3)
		ON CONFLICT (project_id) DO UPDATE SET total_budget = EXCLUDED.total_budget, last_updated_at = EXCLUDED.last_updated_at;
	`
	if _, err := r.pool.Exec(ctx, query, projectID, amount, now); err != nil {
		return fmt.Errorf("failed to upsert total budget for project %s: %w", projectID, err)
	}
	return nil
}

// InsertCostCenter appends a new cost center row.
func (r *PgxBudgetRepository) InsertCostCenter(ctx context.Context, item domain.CostCenterItem) error {
	query := `
		INSERT INTO cost_centers (cost_center_id, project_id, name, allocated_amount, spent_amount,
		                          created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		item.CostCenterID,
		item.ProjectID,
		item.Name,
		item.AllocatedAmount,
		item.SpentAmount,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cost center %q already exists on project %s", apperrors.ErrDuplicate, item.Name, item.ProjectID)
		}
		return fmt.Errorf("failed to insert cost center %s: %w", item.CostCenterID, err)
	}
	return nil
}

// DeleteCostCenter removes the cost center row. Historical transactions keep
// their category string and stay counted in the project-level aggregates.
func (r *PgxBudgetRepository) DeleteCostCenter(ctx context.Context, projectID, costCenterID string) error {
	query := `DELETE FROM cost_centers WHERE project_id = $1 AND cost_center_id = $2;`
	tag, err := r.pool.Exec(ctx, query, projectID, costCenterID)
	if err != nil {
		return fmt.Errorf("failed to delete cost center %s: %w", costCenterID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveTransaction inserts the transaction and applies the aggregate delta in
// one database transaction, so the cached aggregates can never drift from the log.
func (r *PgxBudgetRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, delta domain.BudgetDelta) error {
	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = dbTx.Rollback(ctx) // Ignore rollback error
	}()

	insertQuery := `
		INSERT INTO transactions (transaction_id, project_id, type, category, amount, description, txn_date,
		                          status, created_by_role, approved_by, approved_at,
		                          created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = dbTx.Exec(ctx, insertQuery,
		txn.TransactionID,
		txn.ProjectID,
		txn.Type,
		txn.Category,
		txn.Amount,
		txn.Description,
		txn.Date,
		txn.Status,
		txn.CreatedByRole,
		txn.ApprovedBy,
		txn.ApprovedAt,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	if err := r.applyDelta(ctx, dbTx, txn.ProjectID, delta, txn.LastUpdatedAt); err != nil {
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// TransitionTransaction moves a pending transaction to a terminal status and
// applies the delta atomically. The status guard lives in the UPDATE itself:
// a retried call matches no row and double-counts nothing.
func (r *PgxBudgetRepository) TransitionTransaction(ctx context.Context, transactionID string, to domain.TransactionStatus, approverID string, at time.Time, delta domain.BudgetDelta) error {
	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = dbTx.Rollback(ctx) // Ignore rollback error
	}()

	updateQuery := `
		UPDATE transactions
		SET status = $2, approved_by = $3, approved_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE transaction_id = $1 AND status = $5
		RETURNING project_id;
	`
	var projectID string
	err = dbTx.QueryRow(ctx, updateQuery, transactionID, to, approverID, at, domain.TxnPending).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing transaction from one already resolved.
			var exists bool
			checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1);`, transactionID).Scan(&exists)
			if checkErr != nil {
				return fmt.Errorf("failed to check transaction %s: %w", transactionID, checkErr)
			}
			if !exists {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("%w: transaction %s", apperrors.ErrNotPending, transactionID)
		}
		return fmt.Errorf("failed to transition transaction %s: %w", transactionID, err)
	}

	if err := r.applyDelta(ctx, dbTx, projectID, delta, at); err != nil {
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transition of transaction %s: %w", transactionID, err)
	}
	return nil
}

// applyDelta applies aggregate increments within the caller's DB transaction.
func (r *PgxBudgetRepository) applyDelta(ctx context.Context, dbTx pgx.Tx, projectID string, delta domain.BudgetDelta, at time.Time) error {
	aggregateQuery := `
		UPDATE project_budgets
		SET received_amount = received_amount + $2,
		    spent_amount = spent_amount + $3,
		    pending_amount = pending_amount + $4,
		    last_updated_at = $5
		WHERE project_id = $1;
	`
	tag, err := dbTx.Exec(ctx, aggregateQuery, projectID, delta.Received, delta.Spent, delta.Pending, at)
	if err != nil {
		return fmt.Errorf("failed to apply budget aggregates for project %s: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("budget document missing for project %s: %w", projectID, apperrors.ErrNotFound)
	}

	if delta.CostCenterName != "" && !delta.CostCenterSpent.IsZero() {
		// A name matching no cost center falls through: the spend stays
		// counted at project level only.
		ccQuery := `
			UPDATE cost_centers
			SET spent_amount = spent_amount + $3, last_updated_at = $4
			WHERE project_id = $1 AND name = $2;
		`
		if _, err := dbTx.Exec(ctx, ccQuery, projectID, delta.CostCenterName, delta.CostCenterSpent, at); err != nil {
			return fmt.Errorf("failed to apply cost center spend for project %s: %w", projectID, err)
		}
	}
	return nil
}

const transactionColumns = `transaction_id, project_id, type, category, amount, description, txn_date,
		status, created_by_role, approved_by, approved_at, created_at, created_by, last_updated_at, last_updated_by`

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxBudgetRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactionsByProject returns transactions newest-first with cursor pagination.
func (r *PgxBudgetRepository) ListTransactionsByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{projectID}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE project_id = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for project %s: %w", projectID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var token *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[len(transactions)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}
	return transactions, token, nil
}

// scanTransaction scans one transaction row from a pgx.Row or pgx.Rows.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := row.Scan(
		&txn.TransactionID,
		&txn.ProjectID,
		&txn.Type,
		&txn.Category,
		&txn.Amount,
		&txn.Description,
		&txn.Date,
		&txn.Status,
		&txn.CreatedByRole,
		&txn.ApprovedBy,
		&txn.ApprovedAt,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	return &txn, nil
}
