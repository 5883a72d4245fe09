package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxApprovalRepository persists approval requests. The vote lists and the
// required-role set are stored as jsonb; every post-creation mutation runs
// under a row lock so concurrent votes serialize instead of overwriting.
type PgxApprovalRepository struct {
	pool *pgxpool.Pool
}

// NewPgxApprovalRepository creates a new repository for approval request data.
func NewPgxApprovalRepository(pool *pgxpool.Pool) portsrepo.ApprovalRepository {
	return &PgxApprovalRepository{pool: pool}
}

const approvalColumns = `approval_id, case_id, stage_id, stage_name, status, requester_id, requester_name,
		required_roles, approvals, rejections, created_at, created_by, last_updated_at, last_updated_by`

// SaveApproval inserts a new approval request.
func (r *PgxApprovalRepository) SaveApproval(ctx context.Context, approval domain.ApprovalRequest) error {
	requiredRoles, approvals, rejections, err := marshalApprovalLists(&approval)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO approval_requests (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = r.pool.Exec(ctx, query,
		approval.ApprovalID,
		approval.CaseID,
		approval.StageID,
		approval.StageName,
		approval.Status,
		approval.RequesterID,
		approval.RequesterName,
		requiredRoles,
		approvals,
		rejections,
		approval.CreatedAt,
		approval.CreatedBy,
		approval.LastUpdatedAt,
		approval.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert approval request %s: %w", approval.ApprovalID, err)
	}
	return nil
}

// FindApprovalByID retrieves an approval request by its ID.
func (r *PgxApprovalRepository) FindApprovalByID(ctx context.Context, approvalID string) (*domain.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE approval_id = $1;`
	approval, err := scanApproval(r.pool.QueryRow(ctx, query, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find approval request %s: %w", approvalID, err)
	}
	return approval, nil
}

// UpdateApprovalAtomic loads the approval under a row lock, applies mutate,
// and writes the result back before committing. Two concurrent approvals for
// different roles therefore both land; neither can overwrite the other.
func (r *PgxApprovalRepository) UpdateApprovalAtomic(ctx context.Context, approvalID string, mutate func(*domain.ApprovalRequest) error) (*domain.ApprovalRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE approval_id = $1 FOR UPDATE;`
	approval, err := scanApproval(tx.QueryRow(ctx, query, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock approval request %s: %w", approvalID, err)
	}

	if err := mutate(approval); err != nil {
		// Precondition failure: nothing written, error surfaces unchanged.
		return nil, err
	}

	requiredRoles, approvals, rejections, err := marshalApprovalLists(approval)
	if err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE approval_requests
		SET status = $2, required_roles = $3, approvals = $4, rejections = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE approval_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		approvalID,
		approval.Status,
		requiredRoles,
		approvals,
		rejections,
		approval.LastUpdatedAt,
		approval.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update approval request %s: %w", approvalID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit approval update %s: %w", approvalID, err)
	}
	return approval, nil
}

// ListApprovalsByCase retrieves all approval requests for a case, oldest first.
func (r *PgxApprovalRepository) ListApprovalsByCase(ctx context.Context, caseID string) ([]domain.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE case_id = $1 ORDER BY created_at;`
	return r.queryApprovals(ctx, query, caseID)
}

// ListApprovalsByRole retrieves requests whose required-role set contains role.
func (r *PgxApprovalRepository) ListApprovalsByRole(ctx context.Context, role domain.Role) ([]domain.ApprovalRequest, error) {
	// required_roles is a jsonb array of strings; @> checks membership.
	query := `SELECT ` + approvalColumns + ` FROM approval_requests
		WHERE required_roles @> $1 ORDER BY created_at DESC;`
	roleJSON, err := json.Marshal([]domain.Role{role})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal role filter: %w", err)
	}
	return r.queryApprovals(ctx, query, roleJSON)
}

// ListApprovalsByRequester retrieves requests initiated by the given user.
func (r *PgxApprovalRepository) ListApprovalsByRequester(ctx context.Context, requesterID string) ([]domain.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE requester_id = $1 ORDER BY created_at DESC;`
	return r.queryApprovals(ctx, query, requesterID)
}

func (r *PgxApprovalRepository) queryApprovals(ctx context.Context, query string, args ...any) ([]domain.ApprovalRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval requests: %w", err)
	}
	defer rows.Close()

	approvals := []domain.ApprovalRequest{}
	for rows.Next() {
		approval, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval request row: %w", err)
		}
		approvals = append(approvals, *approval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approval request rows: %w", err)
	}
	return approvals, nil
}

// scanApproval scans one approval row from a pgx.Row or pgx.Rows.
func scanApproval(row pgx.Row) (*domain.ApprovalRequest, error) {
	var approval domain.ApprovalRequest
	var requiredRoles, approvals, rejections []byte

	if err := row.Scan(
		&approval.ApprovalID,
		&approval.CaseID,
		&approval.StageID,
		&approval.StageName,
		&approval.Status,
		&approval.RequesterID,
		&approval.RequesterName,
		&requiredRoles,
		&approvals,
		&rejections,
		&approval.CreatedAt,
		&approval.CreatedBy,
		&approval.LastUpdatedAt,
		&approval.LastUpdatedBy,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(requiredRoles, &approval.RequiredRoles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal required roles: %w", err)
	}
	if err := json.Unmarshal(approvals, &approval.Approvals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal approval actions: %w", err)
	}
	if err := json.Unmarshal(rejections, &approval.Rejections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rejection actions: %w", err)
	}
	return &approval, nil
}

func marshalApprovalLists(approval *domain.ApprovalRequest) (requiredRoles, approvals, rejections []byte, err error) {
	requiredRoles, err = json.Marshal(approval.RequiredRoles)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal required roles: %w", err)
	}
	approvals, err = json.Marshal(approval.Approvals)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal approval actions: %w", err)
	}
	rejections, err = json.Marshal(approval.Rejections)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal rejection actions: %w", err)
	}
	return requiredRoles, approvals, rejections, nil
}
