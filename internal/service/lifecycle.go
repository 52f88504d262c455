package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/domain"
	"tourbook/internal/logger"
	"tourbook/internal/pricing"
	"tourbook/internal/repository"
)

// BookingService owns the booking state machine. Guided transitions
// (Approve, Confirm, Cancel, the customer slip upload) are the only
// mutators of Status apart from the separately audited ForceStatus.
//
// Every mutation persists first, then fires its notification and
// activity entry best-effort: a failed email or audit write never
// rolls back or fails the transition.
type BookingService struct {
	bookings    repository.BookingRepository
	routes      repository.RouteRepository
	customers   repository.CustomerRepository
	activity    *ActivityService
	notifier    Notifier
	files       FileStore
	credentials CredentialGenerator
	routeCache  RouteCache
	baseURL     string
	now         Clock
}

// NewBookingService creates a new BookingService. customers,
// notifier, files, credentials and routeCache may be nil; the related
// side effects are then skipped. A nil clock defaults to time.Now.
func NewBookingService(
	bookings repository.BookingRepository,
	routes repository.RouteRepository,
	customers repository.CustomerRepository,
	activity *ActivityService,
	notifier Notifier,
	files FileStore,
	credentials CredentialGenerator,
	routeCache RouteCache,
	baseURL string,
	clock Clock,
) *BookingService {
	if clock == nil {
		clock = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		routes:      routes,
		customers:   customers,
		activity:    activity,
		notifier:    notifier,
		files:       files,
		credentials: credentials,
		routeCache:  routeCache,
		baseURL:     baseURL,
		now:         clock,
	}
}

// SubmitBookingRequest contains the parameters for a new booking.
type SubmitBookingRequest struct {
	RouteID       string
	TourDate      time.Time
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PaxCount      int
	Participants  []domain.Participant
}

// Submit creates a booking in PENDING_REVIEW. The customer aggregate
// upsert and the acknowledgment email are best-effort; only the
// booking insert itself can fail the operation.
func (s *BookingService) Submit(ctx context.Context, req SubmitBookingRequest) (*domain.Booking, error) {
	if req.RouteID == "" {
		return nil, ErrInvalidRouteID
	}
	if req.CustomerName == "" {
		return nil, ErrMissingCustomerName
	}
	if req.CustomerEmail == "" {
		return nil, ErrMissingCustomerEmail
	}
	if req.PaxCount < 1 {
		return nil, ErrNoParticipants
	}
	if req.PaxCount != len(req.Participants) {
		return nil, ErrPaxMismatch
	}

	// The route reference (id or slug) must resolve before we accept
	// the booking; the booking stores the canonical id.
	route, err := s.getRoute(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &domain.Booking{
		ID:            uuid.New().String(),
		TrackingToken: uuid.New().String(),
		RouteID:       route.ID,
		TourDate:      req.TourDate,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		PaxCount:      req.PaxCount,
		Participants:  req.Participants,
		Status:        domain.BookingStatusPendingReview,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Waivers:       make(map[int]domain.WaiverRecord),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	// Secondary writes after the booking insert are non-transactional
	// on purpose; their failure must not undo the booking.
	if s.customers != nil {
		err := s.customers.Upsert(ctx, &domain.Customer{
			Email:         req.CustomerEmail,
			Name:          req.CustomerName,
			Phone:         req.CustomerPhone,
			LastBookingAt: now,
		})
		if err != nil {
			logger.Log.WithError(err).WithField("booking_id", booking.ID).Warn("customer upsert failed")
		}
	}

	subject, body := buildAcknowledgmentEmail(booking, s.trackURL(booking))
	notify(ctx, s.notifier, booking.ID, booking.CustomerEmail, subject, body)

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionBookingSubmitted,
		Description: fmt.Sprintf("Booking submitted for %d rider(s)", booking.PaxCount),
		Actor:       domain.ActorCustomer,
		ActorEmail:  booking.CustomerEmail,
	})

	return booking, nil
}

// Approve moves a pending booking to AWAITING_PAYMENT and sends the
// payment request email. Approving a booking already awaiting payment
// is a resend: no state change, the email goes out again.
func (s *BookingService) Approve(ctx context.Context, bookingID, adminEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resend := booking.Status == domain.BookingStatusAwaitingPayment
	if !resend {
		if !domain.CanTransition(booking.Status, domain.BookingStatusAwaitingPayment) {
			return nil, ErrInvalidTransition
		}
		booking.Status = domain.BookingStatusAwaitingPayment
		booking.UpdatedAt = s.now()
		if err := s.bookings.Update(ctx, booking); err != nil {
			return nil, err
		}
	}

	route, err := s.getRoute(ctx, booking.RouteID)
	if err != nil {
		return nil, err
	}
	total := pricing.EffectiveTotal(booking, route)
	deposit := pricing.Deposit(total)

	subject, body := buildPaymentRequestEmail(booking, total, deposit, s.trackURL(booking))
	notify(ctx, s.notifier, booking.ID, booking.CustomerEmail, subject, body)

	action := domain.ActionBookingApproved
	description := fmt.Sprintf("Booking approved, payment request sent (total %.2f)", total)
	if resend {
		action = domain.ActionPaymentRequestResent
		description = "Payment request resent"
	}
	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      action,
		Description: description,
		Actor:       domain.ActorAdmin,
		ActorEmail:  adminEmail,
	})

	return booking, nil
}

// UploadPaymentSlip stores the customer's payment slip and moves the
// booking to PAYMENT_UPLOADED. Re-uploading over an existing slip is
// allowed while the booking has not been confirmed.
func (s *BookingService) UploadPaymentSlip(ctx context.Context, trackingToken, filename string, data []byte) (*domain.Booking, error) {
	if trackingToken == "" {
		return nil, ErrInvalidTrackingToken
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	booking, err := s.bookings.GetByTrackingToken(ctx, trackingToken)
	if err != nil {
		return nil, err
	}

	reupload := booking.Status == domain.BookingStatusPaymentUploaded
	if !reupload && !domain.CanTransition(booking.Status, domain.BookingStatusPaymentUploaded) {
		return nil, ErrInvalidTransition
	}

	url, err := s.files.Store(ctx, "slips/"+booking.ID+"-"+filename, data)
	if err != nil {
		return nil, fmt.Errorf("store payment slip: %w", err)
	}

	booking.PaymentSlipURL = url
	booking.Status = domain.BookingStatusPaymentUploaded
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionPaymentSlipUploaded,
		Description: "Customer uploaded a payment slip",
		Actor:       domain.ActorCustomer,
		ActorEmail:  booking.CustomerEmail,
		Metadata:    map[string]any{"slip_url": url},
	})

	return booking, nil
}

// Confirm moves a booking with an uploaded slip to CONFIRMED,
// generates the check-in QR credential and sends the confirmation
// email. Confirming an already confirmed booking resends the email.
//
// QR generation and storage are best-effort: the confirmation stands
// even when the credential could not be produced.
func (s *BookingService) Confirm(ctx context.Context, bookingID, adminEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resend := booking.Status == domain.BookingStatusConfirmed
	if !resend {
		if !domain.CanTransition(booking.Status, domain.BookingStatusConfirmed) {
			return nil, ErrInvalidTransition
		}

		if booking.CheckInQRURL == "" {
			booking.CheckInQRURL = s.generateCheckInCredential(ctx, booking)
		}
		booking.Status = domain.BookingStatusConfirmed
		booking.UpdatedAt = s.now()
		if err := s.bookings.Update(ctx, booking); err != nil {
			return nil, err
		}
	} else if booking.CheckInQRURL == "" {
		// The first confirmation may have failed to produce the
		// credential. Retry on resend so the booking does not stay
		// QR-less until someone notices.
		if url := s.generateCheckInCredential(ctx, booking); url != "" {
			booking.CheckInQRURL = url
			booking.UpdatedAt = s.now()
			if err := s.bookings.Update(ctx, booking); err != nil {
				return nil, err
			}
		}
	}

	subject, body := buildConfirmationEmail(booking, booking.CheckInQRURL)
	notify(ctx, s.notifier, booking.ID, booking.CustomerEmail, subject, body)

	action := domain.ActionBookingConfirmed
	description := "Booking confirmed, confirmation sent"
	if resend {
		action = domain.ActionConfirmationResent
		description = "Confirmation resent"
	}
	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      action,
		Description: description,
		Actor:       domain.ActorAdmin,
		ActorEmail:  adminEmail,
	})

	return booking, nil
}

// Cancel moves a booking to CANCELLED. Confirmed and already
// cancelled bookings cannot be cancelled through the guided path.
// No notification is sent; the activity entry is the record.
func (s *BookingService) Cancel(ctx context.Context, bookingID, adminEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(booking.Status, domain.BookingStatusCancelled) {
		return nil, ErrBookingNotCancellable
	}

	from := booking.Status
	booking.Status = domain.BookingStatusCancelled
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionBookingCancelled,
		Description: "Booking cancelled",
		Actor:       domain.ActorAdmin,
		ActorEmail:  adminEmail,
		Metadata:    map[string]any{"from": string(from)},
	})

	return booking, nil
}

// ForceStatus sets the status to any valid value, bypassing the
// transition table. It exists for manual correction only and carries
// its own action code so forced edits stay visible in the audit trail.
func (s *BookingService) ForceStatus(ctx context.Context, bookingID string, status domain.BookingStatus, adminEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	booking.Status = status
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionStatusForced,
		Description: fmt.Sprintf("Status forced from %s to %s", from, status),
		Actor:       domain.ActorAdmin,
		ActorEmail:  adminEmail,
		Metadata:    map[string]any{"from": string(from), "to": string(status)},
		Level:       domain.LevelWarning,
	})

	return booking, nil
}

// SetCustomTotal sets or clears the administrator price override. A
// nil total restores route-computed pricing. Recorded payment amounts
// are never touched: a deposit that drifts out of sync with the new
// total is surfaced through the payment summary, not auto-corrected.
func (s *BookingService) SetCustomTotal(ctx context.Context, bookingID string, total *float64, adminEmail string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if total != nil && *total < 0 {
		return nil, ErrInvalidCustomTotal
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	prev := booking.CustomTotal
	booking.CustomTotal = total
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	description := "Custom total cleared, route pricing restored"
	metadata := map[string]any{}
	if prev != nil {
		metadata["previous_total"] = *prev
	}
	if total != nil {
		metadata["new_total"] = *total
		description = fmt.Sprintf("Custom total set to %.2f", *total)
	}
	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionCustomTotalSet,
		Description: description,
		Actor:       domain.ActorAdmin,
		ActorEmail:  adminEmail,
		Metadata:    metadata,
		Level:       domain.LevelWarning,
	})

	return booking, nil
}

// Delete removes a booking permanently. Admin-only; the activity
// entry outlives the booking row.
func (s *BookingService) Delete(ctx context.Context, bookingID, adminEmail string) error {
	if bookingID == "" {
		return ErrInvalidBookingID
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		return err
	}

	s.activity.Record(ctx, &domain.ActivityEntry{
		BookingID:   booking.ID,
		Action:      domain.ActionBookingDeleted,
		Description: fmt.Sprintf("Booking for %s deleted", booking.CustomerEmail),
		Actor:       domain.ActorAdmin,
		ActorEmail:  adminEmail,
		Level:       domain.LevelWarning,
	})

	return nil
}

// GetByID retrieves a booking by its internal id.
func (s *BookingService) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookings.GetByID(ctx, bookingID)
}

// GetByTrackingToken retrieves a booking for the customer tracking page.
func (s *BookingService) GetByTrackingToken(ctx context.Context, token string) (*domain.Booking, error) {
	if token == "" {
		return nil, ErrInvalidTrackingToken
	}
	return s.bookings.GetByTrackingToken(ctx, token)
}

// List retrieves recent bookings, newest first.
func (s *BookingService) List(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookings.GetAll(ctx)
}

// GetRoute retrieves a route by id or slug, via the cache when one is
// wired.
func (s *BookingService) GetRoute(ctx context.Context, routeRef string) (*domain.Route, error) {
	if routeRef == "" {
		return nil, ErrInvalidRouteID
	}
	return s.getRoute(ctx, routeRef)
}

// GetCustomer retrieves the aggregate for a customer email.
func (s *BookingService) GetCustomer(ctx context.Context, email string) (*domain.Customer, error) {
	if email == "" {
		return nil, ErrMissingCustomerEmail
	}
	return s.customers.GetByEmail(ctx, email)
}

// getRoute resolves a route reference, which may be an id or a URL
// slug. Slug lookups always go to the repository; only resolved
// routes are cached, under their id.
func (s *BookingService) getRoute(ctx context.Context, routeRef string) (*domain.Route, error) {
	if s.routeCache != nil {
		cached, err := s.routeCache.Get(ctx, routeRef)
		if err != nil {
			logger.Log.WithError(err).Warn("route cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	route, err := s.routes.GetByID(ctx, routeRef)
	if errors.Is(err, repository.ErrNotFound) {
		route, err = s.routes.GetBySlug(ctx, routeRef)
	}
	if err != nil {
		return nil, err
	}

	if s.routeCache != nil {
		if err := s.routeCache.Set(ctx, route); err != nil {
			logger.Log.WithError(err).Warn("route cache write failed")
		}
	}

	return route, nil
}

// generateCheckInCredential encodes the check-in URL as a QR image and
// stores it, returning the public URL or "" on failure.
func (s *BookingService) generateCheckInCredential(ctx context.Context, booking *domain.Booking) string {
	if s.credentials == nil || s.files == nil {
		return ""
	}

	checkInURL := s.baseURL + "/checkin/" + booking.TrackingToken
	png, err := s.credentials.Encode(checkInURL)
	if err != nil {
		logger.Log.WithError(err).WithField("booking_id", booking.ID).Warn("check-in QR generation failed")
		return ""
	}

	url, err := s.files.Store(ctx, "qr/"+booking.ID+".png", png)
	if err != nil {
		logger.Log.WithError(err).WithField("booking_id", booking.ID).Warn("check-in QR upload failed")
		return ""
	}

	return url
}

func (s *BookingService) trackURL(b *domain.Booking) string {
	return s.baseURL + "/track/" + b.TrackingToken
}
