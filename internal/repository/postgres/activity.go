package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// ActivityRepository is a PostgreSQL implementation of repository.ActivityRepository.
type ActivityRepository struct {
	q Querier
}

// NewActivityRepository creates a new PostgreSQL activity repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{q: db}
}

// Append persists one activity entry. Entries are insert-only.
func (r *ActivityRepository) Append(ctx context.Context, e *domain.ActivityEntry) error {
	query := `
		INSERT INTO activity_log (id, booking_id, action, description, actor, actor_email, metadata, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("marshal activity metadata: %w", err)
	}

	_, err = r.q.ExecContext(ctx, query,
		e.ID,
		e.BookingID,
		e.Action,
		e.Description,
		e.Actor,
		e.ActorEmail,
		metadata,
		e.Level,
		e.CreatedAt,
	)

	return err
}

// ListByBooking retrieves one page of entries for a booking, newest first.
func (r *ActivityRepository) ListByBooking(ctx context.Context, bookingID string, limit, offset int) ([]*domain.ActivityEntry, error) {
	query := `
		SELECT id, booking_id, action, description, actor, actor_email, metadata, level, created_at
		FROM activity_log
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q.QueryContext(ctx, query, bookingID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		var metadata []byte

		if err := rows.Scan(
			&e.ID,
			&e.BookingID,
			&e.Action,
			&e.Description,
			&e.Actor,
			&e.ActorEmail,
			&metadata,
			&e.Level,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal activity metadata: %w", err)
			}
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// Ensure ActivityRepository implements repository.ActivityRepository.
var _ repository.ActivityRepository = (*ActivityRepository)(nil)
