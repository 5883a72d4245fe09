package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/case_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxActivityRepository persists the append-only activity log.
type PgxActivityRepository struct {
	pool *pgxpool.Pool
}

// NewPgxActivityRepository creates a new repository for activity events.
func NewPgxActivityRepository(pool *pgxpool.Pool) portsrepo.ActivityRepository {
	return &PgxActivityRepository{pool: pool}
}

// SaveEvent appends one event. Events are never updated or deleted.
func (r *PgxActivityRepository) SaveEvent(ctx context.Context, event domain.ActivityEvent) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	query := `
		INSERT INTO activity_events (event_id, event_type, case_id, description, actor_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = r.pool.Exec(ctx, query,
		event.EventID,
		event.Type,
		event.CaseID,
		event.Description,
		event.ActorID,
		metadata,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity event %s: %w", event.EventID, err)
	}
	return nil
}

// ListEventsByCase returns the most recent events for a case, newest first.
func (r *PgxActivityRepository) ListEventsByCase(ctx context.Context, caseID string, limit int) ([]domain.ActivityEvent, error) {
	query := `
		SELECT event_id, event_type, case_id, description, actor_id, metadata, created_at
		FROM activity_events
		WHERE case_id = $1
		ORDER BY created_at DESC, event_id DESC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, caseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity events for case %s: %w", caseID, err)
	}
	defer rows.Close()

	events := []domain.ActivityEvent{}
	for rows.Next() {
		var event domain.ActivityEvent
		var metadata []byte
		if err := rows.Scan(
			&event.EventID,
			&event.Type,
			&event.CaseID,
			&event.Description,
			&event.ActorID,
			&metadata,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity event row: %w", err)
		}
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity event rows: %w", err)
	}
	return events, nil
}
