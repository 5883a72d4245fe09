package services

import (
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The stage table is built once here and injected
// immutable into the workflow engine.
func NewServiceContainer(repos portsrepo.RepositoryProvider, stages *domain.StageConfig) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Activity sink first: everything else emits into it.
	container.Activity = NewActivityService(repos.ActivityRepo)

	container.User = NewUserService(repos.UserRepo)
	container.Case = NewCaseService(repos.CaseRepo, container.Activity)
	container.Budget = NewBudgetService(repos.BudgetRepo, container.Case, container.Activity)
	container.Approval = NewApprovalWorkflowService(repos.ApprovalRepo, container.Case, container.Activity, stages)

	return container
}
