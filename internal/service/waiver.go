package service

import (
	"context"
	"fmt"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// WaiverService maintains the per-participant waiver ledger on a
// booking. Records are keyed by participant index; signing the same
// index twice replaces the earlier record.
type WaiverService struct {
	bookings repository.BookingRepository
	activity *ActivityService
	notifier Notifier
	files    FileStore
	baseURL  string
	now      Clock
}

// NewWaiverService creates a new WaiverService. A nil clock defaults
// to time.Now.
func NewWaiverService(
	bookings repository.BookingRepository,
	activity *ActivityService,
	notifier Notifier,
	files FileStore,
	baseURL string,
	clock Clock,
) *WaiverService {
	if clock == nil {
		clock = time.Now
	}
	return &WaiverService{
		bookings: bookings,
		activity: activity,
		notifier: notifier,
		files:    files,
		baseURL:  baseURL,
		now:      clock,
	}
}

// SignWaiverRequest contains the parameters for signing a waiver.
type SignWaiverRequest struct {
	SignerName string
	PassportID string
	Email      string
	Signature  []byte
}

// Sign validates and records a signed waiver for one participant.
// Name, passport/ID, email and a signature image are all required.
func (s *WaiverService) Sign(ctx context.Context, trackingToken string, participantIndex int, req SignWaiverRequest) (*domain.Booking, error) {
	if trackingToken == "" {
		return nil, ErrInvalidTrackingToken
	}
	if req.SignerName == "" {
		return nil, ErrMissingSignerName
	}
	if req.PassportID == "" {
		return nil, ErrMissingPassportID
	}
	if req.Email == "" {
		return nil, ErrMissingSignerEmail
	}
	if len(req.Signature) == 0 {
		return nil, ErrMissingSignature
	}

	booking, err := s.bookings.GetByTrackingToken(ctx, trackingToken)
	if err != nil {
		return nil, err
	}

	if participantIndex < 0 || participantIndex >= booking.PaxCount {
		return nil, ErrParticipantNotFound
	}

	signatureURL, err := s.files.Store(ctx, fmt.Sprintf("signatures/%s-%d.png", booking.ID, participantIndex), req.Signature)
	if err != nil {
		return nil, fmt.Errorf("store signature: %w", err)
	}

	booking.UpsertWaiver(domain.WaiverRecord{
		ParticipantIndex: participantIndex,
		SignerName:       req.SignerName,
		PassportID:       req.PassportID,
		Email:            req.Email,
		Signed:           true,
		SignedAt:         s.now(),
		SignatureURL:     signatureURL,
	})
	booking.UpdatedAt = s.now()

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionWaiverSigned,
		Description: fmt.Sprintf("Waiver signed by %s for participant %d", req.SignerName, participantIndex),
		Actor:       domain.ActorCustomer,
		ActorEmail:  req.Email,
	})

	return booking, nil
}

// SendSigningLink emails a per-participant signing link so a rider can
// sign later on their own device. It creates no waiver record: the
// ledger only ever holds real signatures. Per the notification policy
// a failed send is logged, not surfaced.
func (s *WaiverService) SendSigningLink(ctx context.Context, trackingToken string, participantIndex int, email string) error {
	if trackingToken == "" {
		return ErrInvalidTrackingToken
	}
	if email == "" {
		return ErrMissingSignerEmail
	}

	booking, err := s.bookings.GetByTrackingToken(ctx, trackingToken)
	if err != nil {
		return err
	}

	if participantIndex < 0 || participantIndex >= booking.PaxCount {
		return ErrParticipantNotFound
	}

	var participantName string
	if participantIndex < len(booking.Participants) {
		participantName = booking.Participants[participantIndex].Name
	}

	signURL := fmt.Sprintf("%s/track/%s/waiver/%d", s.baseURL, booking.TrackingToken, participantIndex)
	subject, body := buildWaiverLinkEmail(booking, participantName, signURL)
	notify(ctx, s.notifier, booking.ID, email, subject, body)

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionWaiverLinkSent,
		Description: fmt.Sprintf("Signing link sent to %s for participant %d", email, participantIndex),
		Actor:       domain.ActorCustomer,
		ActorEmail:  booking.CustomerEmail,
	})

	return nil
}
