package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ApprovalRepository ---
type MockApprovalRepository struct {
	mock.Mock
}

var _ portsrepo.ApprovalRepository = (*MockApprovalRepository)(nil)

func (m *MockApprovalRepository) SaveApproval(ctx context.Context, approval domain.ApprovalRequest) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *MockApprovalRepository) FindApprovalByID(ctx context.Context, approvalID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

// UpdateApprovalAtomic applies mutate to the configured approval, mirroring
// the repository contract: a mutate error means nothing is written and the
// error surfaces unchanged.
func (m *MockApprovalRepository) UpdateApprovalAtomic(ctx context.Context, approvalID string, mutate func(*domain.ApprovalRequest) error) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	approval := args.Get(0).(*domain.ApprovalRequest)
	if err := mutate(approval); err != nil {
		return nil, err
	}
	return approval, args.Error(1)
}

func (m *MockApprovalRepository) ListApprovalsByCase(ctx context.Context, caseID string) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) ListApprovalsByRole(ctx context.Context, role domain.Role) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) ListApprovalsByRequester(ctx context.Context, requesterID string) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}

// --- Mock BudgetRepository ---
type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepository = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) FindBudgetByProjectID(ctx context.Context, projectID string) (*domain.ProjectBudget, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectBudget), args.Error(1)
}

func (m *MockBudgetRepository) UpsertTotalBudget(ctx context.Context, projectID string, amount decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, projectID, amount, now)
	return args.Error(0)
}

func (m *MockBudgetRepository) InsertCostCenter(ctx context.Context, item domain.CostCenterItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteCostCenter(ctx context.Context, projectID, costCenterID string) error {
	args := m.Called(ctx, projectID, costCenterID)
	return args.Error(0)
}

func (m *MockBudgetRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, delta domain.BudgetDelta) error {
	args := m.Called(ctx, txn, delta)
	return args.Error(0)
}

func (m *MockBudgetRepository) TransitionTransaction(ctx context.Context, transactionID string, to domain.TransactionStatus, approverID string, at time.Time, delta domain.BudgetDelta) error {
	args := m.Called(ctx, transactionID, to, approverID, at, delta)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockBudgetRepository) ListTransactionsByProject(ctx context.Context, projectID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, projectID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

// --- Mock CaseRepository ---
type MockCaseRepository struct {
	mock.Mock
}

var _ portsrepo.CaseRepository = (*MockCaseRepository)(nil)

func (m *MockCaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepository) FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseRepository) UpdateCaseStatus(ctx context.Context, caseID string, status domain.CaseStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, caseID, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockCaseRepository) MarkPaymentVerified(ctx context.Context, caseID, verifiedBy string, at time.Time) error {
	args := m.Called(ctx, caseID, verifiedBy, at)
	return args.Error(0)
}

func (m *MockCaseRepository) MarkCaseConverted(ctx context.Context, caseID string, startedAt time.Time, updatedBy string) error {
	args := m.Called(ctx, caseID, startedAt, updatedBy)
	return args.Error(0)
}

func (m *MockCaseRepository) MirrorApprovalSummary(ctx context.Context, caseID string, summary domain.ApprovalSummary) error {
	args := m.Called(ctx, caseID, summary)
	return args.Error(0)
}

func (m *MockCaseRepository) MirrorBudgetTotal(ctx context.Context, caseID string, total decimal.Decimal) error {
	args := m.Called(ctx, caseID, total)
	return args.Error(0)
}

func (m *MockCaseRepository) SaveTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockCaseRepository) ListTasksByCase(ctx context.Context, caseID string) ([]domain.Task, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

// --- Mock ActivityRepository ---
type MockActivityRepository struct {
	mock.Mock
}

var _ portsrepo.ActivityRepository = (*MockActivityRepository)(nil)

func (m *MockActivityRepository) SaveEvent(ctx context.Context, event domain.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockActivityRepository) ListEventsByCase(ctx context.Context, caseID string, limit int) ([]domain.ActivityEvent, error) {
	args := m.Called(ctx, caseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityEvent), args.Error(1)
}

// --- Mock ActivityService ---
type MockActivityService struct {
	mock.Mock
}

var _ portssvc.ActivitySvcFacade = (*MockActivityService)(nil)

func (m *MockActivityService) Record(ctx context.Context, event domain.ActivityEvent) {
	m.Called(ctx, event)
}

func (m *MockActivityService) ListByCase(ctx context.Context, caseID string, limit int) ([]domain.ActivityEvent, error) {
	args := m.Called(ctx, caseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityEvent), args.Error(1)
}

// --- Mock CaseService (full facade, used by budget and workflow engines) ---
type MockCaseService struct {
	mock.Mock
}

var _ portssvc.CaseSvcFacade = (*MockCaseService)(nil)

func (m *MockCaseService) CreateCase(ctx context.Context, title, customerName, actorID string) (*domain.Case, error) {
	args := m.Called(ctx, title, customerName, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseService) VerifyPayment(ctx context.Context, caseID, actorID string, actorRole domain.Role) error {
	args := m.Called(ctx, caseID, actorID, actorRole)
	return args.Error(0)
}

func (m *MockCaseService) SetStatus(ctx context.Context, caseID string, status domain.CaseStatus, actorID string) error {
	args := m.Called(ctx, caseID, status, actorID)
	return args.Error(0)
}

func (m *MockCaseService) CreateTask(ctx context.Context, caseID, title string, role domain.Role, actorID string) (*domain.Task, error) {
	args := m.Called(ctx, caseID, title, role, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockCaseService) ConvertToProject(ctx context.Context, caseID string, actorID string) error {
	args := m.Called(ctx, caseID, actorID)
	return args.Error(0)
}

func (m *MockCaseService) MirrorApproval(ctx context.Context, caseID string, summary domain.ApprovalSummary) error {
	args := m.Called(ctx, caseID, summary)
	return args.Error(0)
}

func (m *MockCaseService) MirrorBudgetTotal(ctx context.Context, caseID string, total decimal.Decimal) error {
	args := m.Called(ctx, caseID, total)
	return args.Error(0)
}

func (m *MockCaseService) ListTasks(ctx context.Context, caseID string) ([]domain.Task, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
