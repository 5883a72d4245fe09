package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/SscSPs/case_management_app/internal/core/services"
	"github.com/SscSPs/case_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo  *MockBudgetRepository
	mockCaseSvc     *MockCaseService
	mockActivitySvc *MockActivityService
	service         portssvc.BudgetSvcFacade
	projectID       string
	actorID         string
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockCaseSvc = new(MockCaseService)
	suite.mockActivitySvc = new(MockActivityService)
	suite.service = services.NewBudgetService(suite.mockBudgetRepo, suite.mockCaseSvc, suite.mockActivitySvc)

	suite.projectID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.mockActivitySvc.On("Record", mock.Anything, mock.Anything).Maybe()
}

func (suite *BudgetServiceTestSuite) emptyBudget() *domain.ProjectBudget {
	return &domain.ProjectBudget{
		ProjectID:      suite.projectID,
		TotalBudget:    decimal.Zero,
		ReceivedAmount: decimal.Zero,
		SpentAmount:    decimal.Zero,
		PendingAmount:  decimal.Zero,
		CostCenters:    []domain.CostCenterItem{},
		LastUpdatedAt:  time.Now().UTC(),
	}
}

func (suite *BudgetServiceTestSuite) debitRequest(amount int64, category string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Type:        domain.Debit,
		Category:    category,
		Amount:      decimal.NewFromInt(amount),
		Description: "materials purchase",
		Date:        time.Now().UTC(),
	}
}

// --- SetTotalBudget ---

func (suite *BudgetServiceTestSuite) TestSetTotalBudget_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(100000)

	suite.mockBudgetRepo.On("UpsertTotalBudget", ctx, suite.projectID, amount, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockCaseSvc.On("MirrorBudgetTotal", ctx, suite.projectID, amount).Return(nil).Once()

	err := suite.service.SetTotalBudget(ctx, suite.projectID, amount, suite.actorID)

	suite.Require().NoError(err)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
	suite.mockCaseSvc.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestSetTotalBudget_NegativeRejected() {
	ctx := context.Background()

	err := suite.service.SetTotalBudget(ctx, suite.projectID, decimal.NewFromInt(-1), suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpsertTotalBudget", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestSetTotalBudget_MirrorFailureIsNotFatal() {
	ctx := context.Background()
	amount := decimal.NewFromInt(50000)

	suite.mockBudgetRepo.On("UpsertTotalBudget", ctx, suite.projectID, amount, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockCaseSvc.On("MirrorBudgetTotal", ctx, suite.projectID, amount).Return(apperrors.ErrNotFound).Once()

	err := suite.service.SetTotalBudget(ctx, suite.projectID, amount, suite.actorID)

	suite.Require().NoError(err)
}

// --- Cost centers ---

func (suite *BudgetServiceTestSuite) TestAllocateCostCenter_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(60000)

	suite.mockBudgetRepo.On("FindBudgetByProjectID", ctx, suite.projectID).Return(suite.emptyBudget(), nil).Once()
	suite.mockBudgetRepo.On("InsertCostCenter", ctx, mock.AnythingOfType("domain.CostCenterItem")).Return(nil).Once()

	item, err := suite.service.AllocateCostCenter(ctx, suite.projectID, "Civil", amount, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.NotEmpty(item.CostCenterID)
	suite.Equal("Civil", item.Name)
	suite.True(item.AllocatedAmount.Equal(amount))
	suite.True(item.SpentAmount.IsZero())
}

func (suite *BudgetServiceTestSuite) TestAllocateCostCenter_NameRequired() {
	ctx := context.Background()

	item, err := suite.service.AllocateCostCenter(ctx, suite.projectID, "", decimal.NewFromInt(10), suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(item)
}

func (suite *BudgetServiceTestSuite) TestAllocateCostCenter_OverAllocationPermitted() {
	// Allocations may exceed the total budget; the read model flags it, the
	// write path never blocks it.
	ctx := context.Background()
	budget := suite.emptyBudget()
	budget.TotalBudget = decimal.NewFromInt(1000)

	suite.mockBudgetRepo.On("FindBudgetByProjectID", ctx, suite.projectID).Return(budget, nil).Once()
	suite.mockBudgetRepo.On("InsertCostCenter", ctx, mock.AnythingOfType("domain.CostCenterItem")).Return(nil).Once()

	item, err := suite.service.AllocateCostCenter(ctx, suite.projectID, "Electrical", decimal.NewFromInt(99999), suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
}

// --- RecordTransaction ---

func (suite *BudgetServiceTestSuite) TestRecordTransaction_PrivilegedRoleAutoApproved() {
	ctx := context.Background()
	req := suite.debitRequest(10000, "Civil")

	suite.mockBudgetRepo.On("FindBudgetByProjectID", ctx, suite.projectID).Return(suite.emptyBudget(), nil).Once()
	suite.mockBudgetRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.BudgetDelta")).
		Run(func(args mock.Arguments) {
			txn := args.Get(1).(domain.Transaction)
			delta := args.Get(2).(domain.BudgetDelta)
			suite.Equal(domain.TxnApproved, txn.Status)
			suite.True(delta.Spent.Equal(decimal.NewFromInt(10000)))
			suite.True(delta.Pending.IsZero())
			suite.Equal("Civil", delta.CostCenterName)
			suite.True(delta.CostCenterSpent.Equal(decimal.NewFromInt(10000)))
		}).Return(nil).Once()

	txn, err := suite.service.RecordTransaction(ctx, suite.projectID, req, suite.actorID, domain.RoleFinance)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnApproved, txn.Status)
	suite.Require().NotNil(txn.ApprovedBy)
	suite.Equal(suite.actorID, *txn.ApprovedBy)
	suite.NotNil(txn.ApprovedAt)
}

func (suite *BudgetServiceTestSuite) TestRecordTransaction_UnprivilegedRoleLandsPending() {
	ctx := context.Background()
	req := suite.debitRequest(10000, "Civil")

	suite.mockBudgetRepo.On("FindBudgetByProjectID", ctx, suite.projectID).Return(suite.emptyBudget(), nil).Once()
	suite.mockBudgetRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.BudgetDelta")).
		Run(func(args mock.Arguments) {
			delta := args.Get(2).(domain.BudgetDelta)
			// Pending only: no spent, no received, no cost-center attribution.
			suite.True(delta.Pending.Equal(decimal.NewFromInt(10000)))
			suite.True(delta.Spent.IsZero())
			suite.True(delta.Received.IsZero())
			suite.Empty(delta.CostCenterName)
		}).Return(nil).Once()

	txn, err := suite.service.RecordTransaction(ctx, suite.projectID, req, suite.actorID, domain.RoleEngineering)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnPending, txn.Status)
	suite.Nil(txn.ApprovedBy)
}

func (suite *BudgetServiceTestSuite) TestRecordTransaction_CreditFeedsReceived() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Type:        domain.Credit,
		Amount:      decimal.NewFromInt(25000),
		Description: "customer installment",
		Date:        time.Now().UTC(),
	}

	suite.mockBudgetRepo.On("FindBudgetByProjectID", ctx, suite.projectID).Return(suite.emptyBudget(), nil).Once()
	suite.mockBudgetRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.BudgetDelta")).
		Run(func(args mock.Arguments) {
			txn := args.Get(1).(domain.Transaction)
			delta := args.Get(2).(domain.BudgetDelta)
			suite.Equal(domain.GeneralCategory, txn.Category)
			suite.True(delta.Received.Equal(decimal.NewFromInt(25000)))
			suite.True(delta.Spent.IsZero())
			suite.Empty(delta.CostCenterName)
		}).Return(nil).Once()

	txn, err := suite.service.RecordTransaction(ctx, suite.projectID, req, suite.actorID, domain.RoleSuperAdmin)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnApproved, txn.Status)
}

func (suite *BudgetServiceTestSuite) TestRecordTransaction_NonPositiveAmountRejected() {
	ctx := context.Background()
	req := suite.debitRequest(0, "Civil")

	txn, err := suite.service.RecordTransaction(ctx, suite.projectID, req, suite.actorID, domain.RoleFinance)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.Nil(txn)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

// --- Review transitions ---

func (suite *BudgetServiceTestSuite) pendingTxn(txnType domain.TransactionType, amount int64, category string) *domain.Transaction {
	now := time.Now().UTC().Add(-time.Minute)
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		ProjectID:     suite.projectID,
		Type:          txnType,
		Category:      category,
		Amount:        decimal.NewFromInt(amount),
		Description:   "pending entry",
		Date:          now,
		Status:        domain.TxnPending,
		CreatedByRole: domain.RoleEngineering,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "eng-1",
			LastUpdatedAt: now,
			LastUpdatedBy: "eng-1",
		},
	}
}

func (suite *BudgetServiceTestSuite) TestApproveTransaction_MovesPendingIntoSpent() {
	ctx := context.Background()
	txn := suite.pendingTxn(domain.Debit, 10000, "Civil")

	suite.mockBudgetRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockBudgetRepo.On("TransitionTransaction", ctx, txn.TransactionID, domain.TxnApproved, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.BudgetDelta")).
		Run(func(args mock.Arguments) {
			delta := args.Get(5).(domain.BudgetDelta)
			suite.True(delta.Spent.Equal(decimal.NewFromInt(10000)))
			suite.True(delta.Pending.Equal(decimal.NewFromInt(-10000)))
			suite.Equal("Civil", delta.CostCenterName)
			suite.True(delta.CostCenterSpent.Equal(decimal.NewFromInt(10000)))
		}).Return(nil).Once()

	approved, err := suite.service.ApproveTransaction(ctx, txn.TransactionID, suite.actorID, domain.RoleFinance)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnApproved, approved.Status)
	suite.Require().NotNil(approved.ApprovedBy)
	suite.Equal(suite.actorID, *approved.ApprovedBy)
}

func (suite *BudgetServiceTestSuite) TestRejectTransaction_ReleasesPendingOnly() {
	ctx := context.Background()
	txn := suite.pendingTxn(domain.Debit, 5000, "Civil")

	suite.mockBudgetRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockBudgetRepo.On("TransitionTransaction", ctx, txn.TransactionID, domain.TxnRejected, suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.BudgetDelta")).
		Run(func(args mock.Arguments) {
			delta := args.Get(5).(domain.BudgetDelta)
			suite.True(delta.Pending.Equal(decimal.NewFromInt(-5000)))
			suite.True(delta.Spent.IsZero())
			suite.True(delta.Received.IsZero())
			suite.Empty(delta.CostCenterName)
		}).Return(nil).Once()

	rejected, err := suite.service.RejectTransaction(ctx, txn.TransactionID, suite.actorID, domain.RoleSuperAdmin)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnRejected, rejected.Status)
}

func (suite *BudgetServiceTestSuite) TestApproveTransaction_UnprivilegedRoleForbidden() {
	ctx := context.Background()

	approved, err := suite.service.ApproveTransaction(ctx, uuid.NewString(), suite.actorID, domain.RoleSales)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(approved)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "FindTransactionByID", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestApproveTransaction_AlreadyResolved() {
	ctx := context.Background()
	txn := suite.pendingTxn(domain.Debit, 5000, "Civil")
	txn.Status = domain.TxnApproved

	suite.mockBudgetRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	approved, err := suite.service.ApproveTransaction(ctx, txn.TransactionID, suite.actorID, domain.RoleFinance)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotPending)
	suite.Nil(approved)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "TransitionTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPendingLifecycleScenario walks the documented example: a 100,000 budget
// with Civil and Electrical cost centers, a 10,000 pending debit that is
// approved, and a 5,000 pending debit that is rejected.
func (suite *BudgetServiceTestSuite) TestPendingLifecycleScenario() {
	ctx := context.Background()

	// Running aggregate state, mutated the way the repository would.
	state := suite.emptyBudget()
	apply := func(delta domain.BudgetDelta) {
		state.ReceivedAmount = state.ReceivedAmount.Add(delta.Received)
		state.SpentAmount = state.SpentAmount.Add(delta.Spent)
		state.PendingAmount = state.PendingAmount.Add(delta.Pending)
	}

	suite.mockBudgetRepo.On("UpsertTotalBudget", ctx, suite.projectID, decimal.NewFromInt(100000), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { state.TotalBudget = decimal.NewFromInt(100000) }).Return(nil).Once()
	suite.mockCaseSvc.On("MirrorBudgetTotal", ctx, suite.projectID, decimal.NewFromInt(100000)).Return(nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByProjectID", ctx, suite.projectID).Return(state, nil)
	suite.mockBudgetRepo.On("InsertCostCenter", ctx, mock.AnythingOfType("domain.CostCenterItem")).Return(nil).Twice()
	suite.mockBudgetRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.BudgetDelta")).
		Run(func(args mock.Arguments) { apply(args.Get(2).(domain.BudgetDelta)) }).Return(nil).Twice()
	suite.mockBudgetRepo.On("TransitionTransaction", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("domain.TransactionStatus"), suite.actorID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.BudgetDelta")).
		Run(func(args mock.Arguments) { apply(args.Get(5).(domain.BudgetDelta)) }).Return(nil).Twice()

	// Budget and buckets.
	suite.Require().NoError(suite.service.SetTotalBudget(ctx, suite.projectID, decimal.NewFromInt(100000), suite.actorID))
	_, err := suite.service.AllocateCostCenter(ctx, suite.projectID, "Civil", decimal.NewFromInt(60000), suite.actorID)
	suite.Require().NoError(err)
	_, err = suite.service.AllocateCostCenter(ctx, suite.projectID, "Electrical", decimal.NewFromInt(40000), suite.actorID)
	suite.Require().NoError(err)

	// Engineer posts a 10,000 debit: pending only.
	first, err := suite.service.RecordTransaction(ctx, suite.projectID, suite.debitRequest(10000, "Civil"), "eng-1", domain.RoleEngineering)
	suite.Require().NoError(err)
	suite.True(state.PendingAmount.Equal(decimal.NewFromInt(10000)))
	suite.True(state.SpentAmount.IsZero())

	// Finance approves it: pending drains into spent.
	suite.mockBudgetRepo.On("FindTransactionByID", ctx, first.TransactionID).Return(first, nil).Once()
	_, err = suite.service.ApproveTransaction(ctx, first.TransactionID, suite.actorID, domain.RoleFinance)
	suite.Require().NoError(err)
	suite.True(state.SpentAmount.Equal(decimal.NewFromInt(10000)))
	suite.True(state.PendingAmount.IsZero())

	// A second 5,000 debit is posted and then rejected: pending returns to
	// zero and spent never moves.
	second, err := suite.service.RecordTransaction(ctx, suite.projectID, suite.debitRequest(5000, "Electrical"), "eng-1", domain.RoleEngineering)
	suite.Require().NoError(err)
	suite.True(state.PendingAmount.Equal(decimal.NewFromInt(5000)))

	suite.mockBudgetRepo.On("FindTransactionByID", ctx, second.TransactionID).Return(second, nil).Once()
	_, err = suite.service.RejectTransaction(ctx, second.TransactionID, suite.actorID, domain.RoleFinance)
	suite.Require().NoError(err)
	suite.True(state.PendingAmount.IsZero())
	suite.True(state.SpentAmount.Equal(decimal.NewFromInt(10000)))
	suite.True(state.ReceivedAmount.IsZero())
}

// --- ListTransactions ---

func (suite *BudgetServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("ListTransactionsByProject", ctx, suite.projectID, 25, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	page, err := suite.service.ListTransactions(ctx, suite.projectID, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Empty(page.Transactions)
	suite.Nil(page.NextToken)
}

func (suite *BudgetServiceTestSuite) TestListTransactions_ClampsLimit() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("ListTransactionsByProject", ctx, suite.projectID, 100, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	_, err := suite.service.ListTransactions(ctx, suite.projectID, dto.ListTransactionsParams{Limit: 5000})

	suite.Require().NoError(err)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
