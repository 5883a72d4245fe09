package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	ApprovalRepo ApprovalRepository
	BudgetRepo   BudgetRepository
	CaseRepo     CaseRepository
	ActivityRepo ActivityRepository
	UserRepo     UserRepository
}
