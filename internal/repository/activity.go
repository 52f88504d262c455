package repository

import (
	"context"

	"tourbook/internal/domain"
)

// ActivityRepository defines persistence for the append-only activity
// log. Entries are never updated or deleted.
type ActivityRepository interface {
	// Append persists one activity entry.
	Append(ctx context.Context, e *domain.ActivityEntry) error

	// ListByBooking retrieves one page of entries for a booking,
	// newest first.
	ListByBooking(ctx context.Context, bookingID string, limit, offset int) ([]*domain.ActivityEntry, error)
}
