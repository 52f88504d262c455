package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	id, tracking_token, route_id, tour_date,
	customer_name, customer_email, customer_phone,
	pax_count, participants, status, custom_total,
	payment_option, payment_status, amount_paid, payment_slip_url,
	checkin_qr_url, checked_in, checked_in_at,
	waivers, version, created_at, updated_at
`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	participants, err := json.Marshal(b.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}

	waivers, err := marshalWaivers(b.Waivers)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		b.ID,
		b.TrackingToken,
		b.RouteID,
		b.TourDate,
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		b.PaxCount,
		participants,
		b.Status,
		nullFloat(b.CustomTotal),
		string(b.PaymentOption),
		b.PaymentStatus,
		b.AmountPaid,
		b.PaymentSlipURL,
		b.CheckInQRURL,
		b.CheckedIn,
		nullTime(b.CheckedInAt),
		waivers,
		b.Version,
		b.CreatedAt,
		b.UpdatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByTrackingToken retrieves a booking by its customer-facing token.
func (r *BookingRepository) GetByTrackingToken(ctx context.Context, token string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tracking_token = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, token))
}

// GetAll retrieves recent bookings, newest first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT 200`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// Update persists changes to an existing booking. The WHERE clause
// checks the version the caller read; zero rows affected on an
// existing booking means a concurrent writer got there first.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `
		UPDATE bookings
		SET route_id = $1, tour_date = $2,
		    customer_name = $3, customer_email = $4, customer_phone = $5,
		    pax_count = $6, participants = $7, status = $8, custom_total = $9,
		    payment_option = $10, payment_status = $11, amount_paid = $12, payment_slip_url = $13,
		    checkin_qr_url = $14, checked_in = $15, checked_in_at = $16,
		    waivers = $17, version = version + 1, updated_at = $18
		WHERE id = $19 AND version = $20
	`

	participants, err := json.Marshal(b.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}

	waivers, err := marshalWaivers(b.Waivers)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query,
		b.RouteID,
		b.TourDate,
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		b.PaxCount,
		participants,
		b.Status,
		nullFloat(b.CustomTotal),
		string(b.PaymentOption),
		b.PaymentStatus,
		b.AmountPaid,
		b.PaymentSlipURL,
		b.CheckInQRURL,
		b.CheckedIn,
		nullTime(b.CheckedInAt),
		waivers,
		b.UpdatedAt,
		b.ID,
		b.Version,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing booking from a lost version race.
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, b.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return repository.ErrConflict
		}
		return repository.ErrNotFound
	}

	b.Version++
	return nil
}

// Delete removes a booking permanently.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *BookingRepository) scanOne(row *sql.Row) (*domain.Booking, error) {
	b, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BookingRepository) scanRow(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var participants, waivers []byte
	var customTotal sql.NullFloat64
	var checkedInAt sql.NullTime
	var paymentOption string

	err := row.Scan(
		&b.ID,
		&b.TrackingToken,
		&b.RouteID,
		&b.TourDate,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.PaxCount,
		&participants,
		&b.Status,
		&customTotal,
		&paymentOption,
		&b.PaymentStatus,
		&b.AmountPaid,
		&b.PaymentSlipURL,
		&b.CheckInQRURL,
		&b.CheckedIn,
		&checkedInAt,
		&waivers,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &b.Participants); err != nil {
			return nil, fmt.Errorf("unmarshal participants: %w", err)
		}
	}

	if len(waivers) > 0 {
		b.Waivers, err = unmarshalWaivers(waivers)
		if err != nil {
			return nil, err
		}
	}

	b.PaymentOption = domain.PaymentOption(paymentOption)
	if customTotal.Valid {
		b.CustomTotal = &customTotal.Float64
	}
	if checkedInAt.Valid {
		t := checkedInAt.Time
		b.CheckedInAt = &t
	}

	return &b, nil
}

// Waivers are stored as a JSONB object keyed by participant index so
// the column itself carries the one-record-per-index invariant.
func marshalWaivers(w map[int]domain.WaiverRecord) ([]byte, error) {
	keyed := make(map[string]domain.WaiverRecord, len(w))
	for idx, rec := range w {
		keyed[strconv.Itoa(idx)] = rec
	}
	data, err := json.Marshal(keyed)
	if err != nil {
		return nil, fmt.Errorf("marshal waivers: %w", err)
	}
	return data, nil
}

func unmarshalWaivers(data []byte) (map[int]domain.WaiverRecord, error) {
	var keyed map[string]domain.WaiverRecord
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("unmarshal waivers: %w", err)
	}

	waivers := make(map[int]domain.WaiverRecord, len(keyed))
	for key, rec := range keyed {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("unmarshal waivers: bad index %q", key)
		}
		waivers[idx] = rec
	}
	return waivers, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
