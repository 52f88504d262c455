package repository

import (
	"context"

	"tourbook/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, b *domain.Booking) error

	// GetByID retrieves a booking by its internal id.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByTrackingToken retrieves a booking by its customer-facing token.
	GetByTrackingToken(ctx context.Context, token string) (*domain.Booking, error)

	// GetAll retrieves recent bookings, newest first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// Update persists changes to an existing booking. The write is
	// version-checked: ErrConflict is returned when the stored version
	// no longer matches b.Version.
	Update(ctx context.Context, b *domain.Booking) error

	// Delete removes a booking permanently.
	Delete(ctx context.Context, id string) error
}
