package domain

import "time"

// Customer is the per-email aggregate maintained alongside bookings.
// It is updated best-effort on submission and may lag behind the
// actual booking count.
type Customer struct {
	Email         string
	Name          string
	Phone         string
	TotalBookings int
	LastBookingAt time.Time
}
