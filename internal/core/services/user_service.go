package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
)

// userService resolves authenticated subjects against the user directory.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID returns the directory user, validating that the stored role is
// still a member of the closed enumeration.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Role.IsValid() {
		return nil, fmt.Errorf("%w: user %s carries unknown role %q", apperrors.ErrValidation, userID, user.Role)
	}
	return user, nil
}
