package repository

import (
	"context"

	"tourbook/internal/domain"
)

// CustomerRepository defines persistence for the customer aggregate.
type CustomerRepository interface {
	// Upsert inserts the customer or, when the email already exists,
	// refreshes contact fields and increments the booking counter.
	Upsert(ctx context.Context, c *domain.Customer) error

	// GetByEmail retrieves a customer by email.
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}
