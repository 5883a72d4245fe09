package services

import (
	"context"

	"github.com/SscSPs/case_management_app/internal/core/domain"
)

// UserSvcFacade resolves authenticated subjects to directory users so
// handlers can hand a validated role to the engines.
type UserSvcFacade interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
