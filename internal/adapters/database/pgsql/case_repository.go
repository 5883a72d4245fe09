package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxCaseRepository persists cases, their tasks and the denormalized approval
// and budget mirrors.
type PgxCaseRepository struct {
	pool *pgxpool.Pool
}

// NewPgxCaseRepository creates a new repository for case data.
func NewPgxCaseRepository(pool *pgxpool.Pool) portsrepo.CaseRepository {
	return &PgxCaseRepository{pool: pool}
}

const caseColumns = `case_id, title, customer_name, status, payment_verified, payment_verified_by, payment_verified_at,
		is_project, project_started_at, budget_total, approvals,
		created_at, created_by, last_updated_at, last_updated_by`

// SaveCase inserts a new case.
func (r *PgxCaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	approvals, err := json.Marshal(c.Approvals)
	if err != nil {
		return fmt.Errorf("failed to marshal approval mirror: %w", err)
	}

	query := `
		INSERT INTO cases (` + caseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = r.pool.Exec(ctx, query,
		c.CaseID,
		c.Title,
		c.CustomerName,
		c.Status,
		c.Financial.PaymentVerified,
		c.Financial.PaymentVerifiedBy,
		c.Financial.PaymentVerifiedAt,
		c.IsProject,
		c.ProjectStartedAt,
		c.BudgetTotal,
		approvals,
		c.CreatedAt,
		c.CreatedBy,
		c.LastUpdatedAt,
		c.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: case %s already exists", apperrors.ErrDuplicate, c.CaseID)
		}
		return fmt.Errorf("failed to insert case %s: %w", c.CaseID, err)
	}
	return nil
}

// FindCaseByID retrieves a case by its ID.
func (r *PgxCaseRepository) FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE case_id = $1;`
	c, err := scanCase(r.pool.QueryRow(ctx, query, caseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find case %s: %w", caseID, err)
	}
	return c, nil
}

// UpdateCaseStatus sets the case lifecycle status.
func (r *PgxCaseRepository) UpdateCaseStatus(ctx context.Context, caseID string, status domain.CaseStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE cases
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE case_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, caseID, status, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of case %s: %w", caseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkPaymentVerified flips the payment gate flag one way. A case already
// verified matches the guard's FALSE check but the write is idempotent, so
// the guard only excludes re-stamping the verifier.
func (r *PgxCaseRepository) MarkPaymentVerified(ctx context.Context, caseID, verifiedBy string, at time.Time) error {
	query := `
		UPDATE cases
		SET payment_verified = TRUE, payment_verified_by = $2, payment_verified_at = $3,
		    last_updated_at = $3, last_updated_by = $2
		WHERE case_id = $1 AND payment_verified = FALSE;
	`
	tag, err := r.pool.Exec(ctx, query, caseID, verifiedBy, at)
	if err != nil {
		return fmt.Errorf("failed to mark payment verified for case %s: %w", caseID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE case_id = $1);`, caseID).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("failed to check case %s: %w", caseID, checkErr)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		// Already verified: nothing to do.
	}
	return nil
}

// MarkCaseConverted flips the case to a project. The payment-verified and
// status preconditions are part of the UPDATE's WHERE clause: a concurrent
// change between the caller's read and this write matches no row instead of
// producing a half-converted case.
func (r *PgxCaseRepository) MarkCaseConverted(ctx context.Context, caseID string, startedAt time.Time, updatedBy string) error {
	query := `
		UPDATE cases
		SET is_project = TRUE, project_started_at = $2, status = $3, last_updated_at = $2, last_updated_by = $4
		WHERE case_id = $1 AND payment_verified = TRUE AND status = $5 AND is_project = FALSE;
	`
	tag, err := r.pool.Exec(ctx, query, caseID, startedAt, domain.StatusPlanning, updatedBy, domain.StatusWaitingForPlanning)
	if err != nil {
		return fmt.Errorf("failed to convert case %s: %w", caseID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE case_id = $1);`, caseID).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("failed to check case %s: %w", caseID, checkErr)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: case %s no longer satisfies conversion preconditions", apperrors.ErrInvalidStatus, caseID)
	}
	return nil
}

// MirrorApprovalSummary replaces or appends the summary entry for the
// approval in the case's mirrored list. Runs under a row lock so two
// concurrent mirror writes cannot drop each other's entries.
func (r *PgxCaseRepository) MirrorApprovalSummary(ctx context.Context, caseID string, summary domain.ApprovalSummary) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT approvals FROM cases WHERE case_id = $1 FOR UPDATE;`, caseID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock case %s for approval mirror: %w", caseID, err)
	}

	var summaries []domain.ApprovalSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return fmt.Errorf("failed to unmarshal approval mirror for case %s: %w", caseID, err)
	}

	replaced := false
	for i := range summaries {
		if summaries[i].ApprovalID == summary.ApprovalID {
			summaries[i] = summary
			replaced = true
			break
		}
	}
	if !replaced {
		summaries = append(summaries, summary)
	}

	updated, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal approval mirror for case %s: %w", caseID, err)
	}
	if _, err := tx.Exec(ctx, `UPDATE cases SET approvals = $2 WHERE case_id = $1;`, caseID, updated); err != nil {
		return fmt.Errorf("failed to write approval mirror for case %s: %w", caseID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit approval mirror for case %s: %w", caseID, err)
	}
	return nil
}

// MirrorBudgetTotal stores the display copy of the project's total budget.
func (r *PgxCaseRepository) MirrorBudgetTotal(ctx context.Context, caseID string, total decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cases SET budget_total = $2 WHERE case_id = $1;`, caseID, total)
	if err != nil {
		return fmt.Errorf("failed to mirror budget total for case %s: %w", caseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveTask inserts a new follow-on task.
func (r *PgxCaseRepository) SaveTask(ctx context.Context, task domain.Task) error {
	query := `
		INSERT INTO tasks (task_id, case_id, title, assigned_role, status,
		                   created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		task.TaskID,
		task.CaseID,
		task.Title,
		task.AssignedRole,
		task.Status,
		task.CreatedAt,
		task.CreatedBy,
		task.LastUpdatedAt,
		task.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task %s: %w", task.TaskID, err)
	}
	return nil
}

// ListTasksByCase retrieves all tasks for a case, oldest first.
func (r *PgxCaseRepository) ListTasksByCase(ctx context.Context, caseID string) ([]domain.Task, error) {
	query := `
		SELECT task_id, case_id, title, assigned_role, status,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM tasks
		WHERE case_id = $1
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for case %s: %w", caseID, err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.TaskID,
			&task.CaseID,
			&task.Title,
			&task.AssignedRole,
			&task.Status,
			&task.CreatedAt,
			&task.CreatedBy,
			&task.LastUpdatedAt,
			&task.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// scanCase scans one case row from a pgx.Row or pgx.Rows.
func scanCase(row pgx.Row) (*domain.Case, error) {
	var c domain.Case
	var approvals []byte

	if err := row.Scan(
		&c.CaseID,
		&c.Title,
		&c.CustomerName,
		&c.Status,
		&c.Financial.PaymentVerified,
		&c.Financial.PaymentVerifiedBy,
		&c.Financial.PaymentVerifiedAt,
		&c.IsProject,
		&c.ProjectStartedAt,
		&c.BudgetTotal,
		&approvals,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(approvals, &c.Approvals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal approval mirror: %w", err)
	}
	return &c, nil
}
