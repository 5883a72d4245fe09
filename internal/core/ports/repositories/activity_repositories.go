package repositories

import (
	"context"

	"github.com/SscSPs/case_management_app/internal/core/domain"
)

// ActivityRepository defines persistence for the append-only activity log.
type ActivityRepository interface {
	SaveEvent(ctx context.Context, event domain.ActivityEvent) error
	ListEventsByCase(ctx context.Context, caseID string, limit int) ([]domain.ActivityEvent, error)
}
