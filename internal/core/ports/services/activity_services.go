package services

import (
	"context"

	"github.com/SscSPs/case_management_app/internal/core/domain"
)

// ActivitySvcFacade is the fire-and-forget activity/notification sink.
// Record never returns an error: delivery failures are logged and discarded
// so they cannot block a financial or approval transition.
type ActivitySvcFacade interface {
	Record(ctx context.Context, event domain.ActivityEvent)
	ListByCase(ctx context.Context, caseID string, limit int) ([]domain.ActivityEvent, error)
}
