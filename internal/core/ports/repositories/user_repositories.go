package repositories

import (
	"context"

	"github.com/SscSPs/case_management_app/internal/core/domain"
)

// UserRepository resolves actor identities to users. The directory is
// read-only here; user management lives elsewhere.
type UserRepository interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}
