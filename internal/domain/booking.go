package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPendingReview   BookingStatus = "PENDING_REVIEW"
	BookingStatusAwaitingPayment BookingStatus = "AWAITING_PAYMENT"
	BookingStatusPaymentUploaded BookingStatus = "PAYMENT_UPLOADED"
	BookingStatusConfirmed       BookingStatus = "CONFIRMED"
	BookingStatusCancelled       BookingStatus = "CANCELLED"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPendingReview,
		BookingStatusAwaitingPayment,
		BookingStatusPaymentUploaded,
		BookingStatusConfirmed,
		BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the guided state machine allows moving
// from one status to another. CANCELLED is reachable from every
// non-terminal status; the happy path is strictly forward.
func CanTransition(from, to BookingStatus) bool {
	switch to {
	case BookingStatusAwaitingPayment:
		return from == BookingStatusPendingReview
	case BookingStatusPaymentUploaded:
		return from == BookingStatusAwaitingPayment
	case BookingStatusConfirmed:
		return from == BookingStatusPaymentUploaded
	case BookingStatusCancelled:
		return from == BookingStatusPendingReview ||
			from == BookingStatusAwaitingPayment ||
			from == BookingStatusPaymentUploaded
	}
	return false
}

// PaymentOption is the customer's chosen way to pay. Empty means the
// customer has not picked one yet.
type PaymentOption string

const (
	PaymentOptionNone       PaymentOption = ""
	PaymentOptionDeposit50  PaymentOption = "deposit_50"
	PaymentOptionFull100    PaymentOption = "full_100"
	PaymentOptionPayAtVenue PaymentOption = "pay_at_venue"
)

// Valid reports whether o is a selectable payment option.
func (o PaymentOption) Valid() bool {
	switch o {
	case PaymentOptionDeposit50, PaymentOptionFull100, PaymentOptionPayAtVenue:
		return true
	}
	return false
}

// PaymentStatus tracks how much of the effective total has been settled.
type PaymentStatus string

const (
	PaymentStatusUnpaid      PaymentStatus = "unpaid"
	PaymentStatusDepositPaid PaymentStatus = "deposit_paid"
	PaymentStatusFullyPaid   PaymentStatus = "fully_paid"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusDepositPaid, PaymentStatusFullyPaid:
		return true
	}
	return false
}

// Participant is one rider on a booking.
type Participant struct {
	Name        string `json:"name"`
	HeightCM    int    `json:"height_cm"`
	HelmetSize  string `json:"helmet_size"`
	DietaryNote string `json:"dietary_note,omitempty"`
}

// Booking represents one customer's reservation for a route on a date.
//
// TrackingToken is the customer-facing identifier; it is generated
// independently of ID and must never be derivable from it.
type Booking struct {
	ID            string
	TrackingToken string
	RouteID       string
	TourDate      time.Time
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PaxCount      int
	Participants  []Participant
	Status        BookingStatus

	// CustomTotal, when set, supersedes the computed price everywhere.
	CustomTotal *float64

	PaymentOption  PaymentOption
	PaymentStatus  PaymentStatus
	AmountPaid     float64
	PaymentSlipURL string

	CheckInQRURL string
	CheckedIn    bool
	CheckedInAt  *time.Time

	// Waivers is keyed by participant index; the map key is the
	// uniqueness invariant (one record per participant).
	Waivers map[int]WaiverRecord

	// Version is bumped on every persisted update; stale writers fail
	// with a conflict instead of silently overwriting.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertWaiver replaces any existing record for the same participant
// index, else adds one.
func (b *Booking) UpsertWaiver(rec WaiverRecord) {
	if b.Waivers == nil {
		b.Waivers = make(map[int]WaiverRecord)
	}
	b.Waivers[rec.ParticipantIndex] = rec
}

// Waiver returns the record for a participant index, if present.
func (b *Booking) Waiver(idx int) (WaiverRecord, bool) {
	rec, ok := b.Waivers[idx]
	return rec, ok
}

// WaiversComplete reports whether every participant index in
// [0, PaxCount) has a signed waiver record.
func (b *Booking) WaiversComplete() bool {
	if b.PaxCount <= 0 {
		return false
	}
	for i := 0; i < b.PaxCount; i++ {
		rec, ok := b.Waivers[i]
		if !ok || !rec.Signed {
			return false
		}
	}
	return true
}
