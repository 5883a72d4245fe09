package pgsql

import (
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ApprovalRepo: NewPgxApprovalRepository(pool),
		BudgetRepo:   NewPgxBudgetRepository(pool),
		CaseRepo:     NewPgxCaseRepository(pool),
		ActivityRepo: NewPgxActivityRepository(pool),
		UserRepo:     NewPgxUserRepository(pool),
	}
}
