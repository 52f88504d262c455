package service

import (
	"context"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// CheckInService toggles on-site attendance on a booking. The
// CONFIRMED gate is enforced here, inside the service, rather than
// left to callers: every transport path gets the same rule.
type CheckInService struct {
	bookings repository.BookingRepository
	activity *ActivityService
	now      Clock
}

// NewCheckInService creates a new CheckInService. A nil clock
// defaults to time.Now.
func NewCheckInService(bookings repository.BookingRepository, activity *ActivityService, clock Clock) *CheckInService {
	if clock == nil {
		clock = time.Now
	}
	return &CheckInService{bookings: bookings, activity: activity, now: clock}
}

// CheckIn marks a confirmed booking as present. Checking in an
// already checked-in booking refreshes the timestamp.
func (s *CheckInService) CheckIn(ctx context.Context, bookingID, staffEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusConfirmed {
		return nil, ErrNotConfirmed
	}

	now := s.now()
	booking.CheckedIn = true
	booking.CheckedInAt = &now
	booking.UpdatedAt = now
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionCheckedIn,
		Description: "Group checked in",
		Actor:       domain.ActorAdmin,
		ActorEmail:  staffEmail,
	})

	return booking, nil
}

// UndoCheckIn clears the attendance fields. Undoing a booking that is
// not checked in is a no-op, not an error.
func (s *CheckInService) UndoCheckIn(ctx context.Context, bookingID, staffEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.CheckedIn {
		return booking, nil
	}

	booking.CheckedIn = false
	booking.CheckedInAt = nil
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionCheckInUndone,
		Description: "Check-in undone",
		Actor:       domain.ActorAdmin,
		ActorEmail:  staffEmail,
	})

	return booking, nil
}
