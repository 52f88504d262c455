package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// CustomerRepository is a PostgreSQL implementation of repository.CustomerRepository.
type CustomerRepository struct {
	q Querier
}

// NewCustomerRepository creates a new PostgreSQL customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{q: db}
}

// Upsert inserts the customer or refreshes contact fields and bumps the
// booking counter when the email already exists.
func (r *CustomerRepository) Upsert(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (email, name, phone, total_bookings, last_booking_at)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    phone = EXCLUDED.phone,
		    total_bookings = customers.total_bookings + 1,
		    last_booking_at = EXCLUDED.last_booking_at
	`

	_, err := r.q.ExecContext(ctx, query, c.Email, c.Name, c.Phone, c.LastBookingAt)
	return err
}

// GetByEmail retrieves a customer by email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `
		SELECT email, name, phone, total_bookings, last_booking_at
		FROM customers WHERE email = $1
	`

	var c domain.Customer
	err := r.q.QueryRowContext(ctx, query, email).Scan(
		&c.Email,
		&c.Name,
		&c.Phone,
		&c.TotalBookings,
		&c.LastBookingAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &c, nil
}

// Ensure CustomerRepository implements repository.CustomerRepository.
var _ repository.CustomerRepository = (*CustomerRepository)(nil)
