package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/SscSPs/case_management_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type ActivityServiceTestSuite struct {
	suite.Suite
	mockActivityRepo *MockActivityRepository
	service          portssvc.ActivitySvcFacade
	caseID           string
}

func (suite *ActivityServiceTestSuite) SetupTest() {
	suite.mockActivityRepo = new(MockActivityRepository)
	suite.service = services.NewActivityService(suite.mockActivityRepo)
	suite.caseID = uuid.NewString()
}

func (suite *ActivityServiceTestSuite) TestRecord_FillsIdentityAndTimestamp() {
	ctx := context.Background()

	suite.mockActivityRepo.On("SaveEvent", ctx, mock.AnythingOfType("domain.ActivityEvent")).
		Run(func(args mock.Arguments) {
			event := args.Get(1).(domain.ActivityEvent)
			suite.NotEmpty(event.EventID)
			suite.False(event.CreatedAt.IsZero())
		}).Return(nil).Once()

	suite.service.Record(ctx, domain.ActivityEvent{
		Type:        domain.ActivityStatusChanged,
		CaseID:      suite.caseID,
		Description: "Case status changed to CONTRACT_REVIEW",
		ActorID:     "pm-1",
	})

	suite.mockActivityRepo.AssertExpectations(suite.T())
}

func (suite *ActivityServiceTestSuite) TestRecord_PersistFailureIsSwallowed() {
	ctx := context.Background()

	suite.mockActivityRepo.On("SaveEvent", ctx, mock.AnythingOfType("domain.ActivityEvent")).
		Return(errors.New("connection reset")).Once()

	// Record has no error return; a repo failure must not panic.
	suite.service.Record(ctx, domain.ActivityEvent{
		Type:   domain.ActivityCaseCreated,
		CaseID: suite.caseID,
	})

	suite.mockActivityRepo.AssertExpectations(suite.T())
}

func (suite *ActivityServiceTestSuite) TestListByCase_DefaultsLimit() {
	ctx := context.Background()

	suite.mockActivityRepo.On("ListEventsByCase", ctx, suite.caseID, 50).
		Return([]domain.ActivityEvent{}, nil).Once()

	events, err := suite.service.ListByCase(ctx, suite.caseID, 0)

	suite.Require().NoError(err)
	suite.Empty(events)
}

func (suite *ActivityServiceTestSuite) TestListByCase_OversizedLimitReset() {
	ctx := context.Background()

	suite.mockActivityRepo.On("ListEventsByCase", ctx, suite.caseID, 50).
		Return([]domain.ActivityEvent{}, nil).Once()

	_, err := suite.service.ListByCase(ctx, suite.caseID, 9999)

	suite.Require().NoError(err)
	suite.mockActivityRepo.AssertExpectations(suite.T())
}

func TestActivityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityServiceTestSuite))
}
