package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// activityService is the append-only activity/notification sink.
type activityService struct {
	BaseService
	activityRepo portsrepo.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo portsrepo.ActivityRepository) portssvc.ActivitySvcFacade {
	return &activityService{activityRepo: activityRepo}
}

var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

// Record appends an event to the activity log. Fire-and-forget: a failure to
// persist is logged and discarded so it can never block the approval or
// ledger transition that emitted it.
func (s *activityService) Record(ctx context.Context, event domain.ActivityEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := s.activityRepo.SaveEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to record activity event",
			slog.String("event_type", string(event.Type)),
			slog.String("case_id", event.CaseID))
	}
}

// ListByCase returns the newest events for a case.
func (s *activityService) ListByCase(ctx context.Context, caseID string, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.activityRepo.ListEventsByCase(ctx, caseID, limit)
}
