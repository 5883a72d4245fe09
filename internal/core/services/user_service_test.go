package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/SscSPs/case_management_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestGetUserByID_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	stored := &domain.User{
		UserID: userID,
		Name:   "Priya Sharma",
		Role:   domain.RoleFinance,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(stored, user)
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestGetUserByID_UnknownRoleRejected() {
	ctx := context.Background()
	userID := uuid.NewString()
	stored := &domain.User{
		UserID: userID,
		Name:   "Stale Import",
		Role:   domain.Role("INTERN"),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(user)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
