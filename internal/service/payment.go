package service

import (
	"context"
	"fmt"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/pricing"
	"tourbook/internal/repository"
)

// PaymentService tracks payment state on bookings. It exposes two
// independent paths: the guided path (option selection plus mark-paid
// at the expected tier amounts) and the correction path, which sets
// status and amount to exactly the given values for fixing data-entry
// mistakes. Both enforce 0 <= amount <= effective total.
type PaymentService struct {
	bookings repository.BookingRepository
	routes   repository.RouteRepository
	activity *ActivityService
	notifier Notifier
	now      Clock
}

// NewPaymentService creates a new PaymentService. A nil clock
// defaults to time.Now.
func NewPaymentService(
	bookings repository.BookingRepository,
	routes repository.RouteRepository,
	activity *ActivityService,
	notifier Notifier,
	clock Clock,
) *PaymentService {
	if clock == nil {
		clock = time.Now
	}
	return &PaymentService{
		bookings: bookings,
		routes:   routes,
		activity: activity,
		notifier: notifier,
		now:      clock,
	}
}

// SelectOption records the customer's payment choice. It changes no
// amounts.
func (s *PaymentService) SelectOption(ctx context.Context, trackingToken string, option domain.PaymentOption) (*domain.Booking, error) {
	if trackingToken == "" {
		return nil, ErrInvalidTrackingToken
	}
	if !option.Valid() {
		return nil, ErrInvalidPaymentOption
	}

	booking, err := s.bookings.GetByTrackingToken(ctx, trackingToken)
	if err != nil {
		return nil, err
	}

	booking.PaymentOption = option
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionPaymentOptionSelected,
		Description: fmt.Sprintf("Customer selected payment option %s", option),
		Actor:       domain.ActorCustomer,
		ActorEmail:  booking.CustomerEmail,
	})

	return booking, nil
}

// MarkPaid records a verified payment at one of the two guided tiers.
// deposit_paid expects exactly the recomputed deposit, fully_paid
// exactly the effective total. Status and amount change together.
func (s *PaymentService) MarkPaid(ctx context.Context, bookingID string, tier domain.PaymentStatus, amount float64, adminEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if tier != domain.PaymentStatusDepositPaid && tier != domain.PaymentStatusFullyPaid {
		return nil, ErrInvalidPaymentStatus
	}

	booking, total, err := s.bookingWithTotal(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := checkAmountBounds(amount, total); err != nil {
		return nil, err
	}

	expected := total
	if tier == domain.PaymentStatusDepositPaid {
		expected = pricing.Deposit(total)
	}
	if amount != expected {
		return nil, ErrAmountMismatch
	}

	booking.PaymentStatus = tier
	booking.AmountPaid = amount
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	subject, body := buildPaymentReceivedEmail(booking, amount, total-amount)
	notify(ctx, s.notifier, booking.ID, booking.CustomerEmail, subject, body)

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionPaymentMarked,
		Description: fmt.Sprintf("Payment of %.2f recorded as %s", amount, tier),
		Actor:       domain.ActorAdmin,
		ActorEmail:  adminEmail,
		Metadata:    map[string]any{"amount": amount, "tier": string(tier)},
	})

	return booking, nil
}

// Correct sets payment status and amount to exactly the given values.
// This is the designated channel for fixing human data-entry error:
// any valid combination is accepted within the amount bounds, no
// customer notification is sent, and the audit entry carries its own
// action code plus the previous values.
func (s *PaymentService) Correct(ctx context.Context, bookingID string, status domain.PaymentStatus, amount float64, adminEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	booking, total, err := s.bookingWithTotal(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := checkAmountBounds(amount, total); err != nil {
		return nil, err
	}

	prevStatus := booking.PaymentStatus
	prevAmount := booking.AmountPaid

	booking.PaymentStatus = status
	booking.AmountPaid = amount
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionPaymentCorrected,
		Description: fmt.Sprintf("Payment manually corrected to %s / %.2f", status, amount),
		Actor:       domain.ActorAdmin,
		ActorEmail:  adminEmail,
		Metadata: map[string]any{
			"previous_status": string(prevStatus),
			"previous_amount": prevAmount,
			"new_status":      string(status),
			"new_amount":      amount,
		},
		Level: domain.LevelWarning,
	})

	return booking, nil
}

// Summary is the display-ready payment state of a booking. Deposit is
// always recomputed from the live effective total; DepositOutOfSync
// flags a deposit-paid booking whose recorded amount no longer equals
// that deposit (typically after a custom-total edit). It is reported,
// never auto-corrected.
type Summary struct {
	EffectiveTotal   float64
	Deposit          float64
	AmountPaid       float64
	Remaining        float64
	PaymentOption    domain.PaymentOption
	PaymentStatus    domain.PaymentStatus
	DepositOutOfSync bool
}

// Summarize computes the payment summary for a booking.
func (s *PaymentService) Summarize(ctx context.Context, booking *domain.Booking) (*Summary, error) {
	route, err := s.routes.GetByID(ctx, booking.RouteID)
	if err != nil {
		return nil, err
	}

	total := pricing.EffectiveTotal(booking, route)
	deposit := pricing.Deposit(total)

	return &Summary{
		EffectiveTotal:   total,
		Deposit:          deposit,
		AmountPaid:       booking.AmountPaid,
		Remaining:        total - booking.AmountPaid,
		PaymentOption:    booking.PaymentOption,
		PaymentStatus:    booking.PaymentStatus,
		DepositOutOfSync: booking.PaymentStatus == domain.PaymentStatusDepositPaid && booking.AmountPaid != deposit,
	}, nil
}

func (s *PaymentService) bookingWithTotal(ctx context.Context, bookingID string) (*domain.Booking, float64, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, 0, err
	}

	route, err := s.routes.GetByID(ctx, booking.RouteID)
	if err != nil {
		return nil, 0, err
	}

	return booking, pricing.EffectiveTotal(booking, route), nil
}

func checkAmountBounds(amount, total float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount > total {
		return ErrAmountExceedsTotal
	}
	return nil
}
