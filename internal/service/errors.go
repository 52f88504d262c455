package service

import "errors"

// Validation errors: malformed or missing input.
var (
	// ErrInvalidBookingID is returned when the booking id is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidTrackingToken is returned when the tracking token is empty.
	ErrInvalidTrackingToken = errors.New("invalid tracking token")

	// ErrInvalidRouteID is returned when the route id is empty.
	ErrInvalidRouteID = errors.New("invalid route id")

	// ErrMissingCustomerName is returned when the customer name is empty.
	ErrMissingCustomerName = errors.New("customer name is required")

	// ErrMissingCustomerEmail is returned when the customer email is empty.
	ErrMissingCustomerEmail = errors.New("customer email is required")

	// ErrNoParticipants is returned when a booking has no riders.
	ErrNoParticipants = errors.New("at least one participant is required")

	// ErrPaxMismatch is returned when pax count does not equal the
	// number of participant records.
	ErrPaxMismatch = errors.New("pax count does not match participants")

	// ErrInvalidStatus is returned when a status string is not a known
	// booking status.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentOption is returned for an unknown payment option.
	ErrInvalidPaymentOption = errors.New("invalid payment option")

	// ErrInvalidPaymentStatus is returned for an unknown payment status.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")

	// ErrInvalidCustomTotal is returned when a custom total override is
	// below zero.
	ErrInvalidCustomTotal = errors.New("custom total cannot be negative")

	// ErrEmptyUpload is returned when an uploaded file has no content.
	ErrEmptyUpload = errors.New("uploaded file is empty")

	// ErrMissingSignerName is returned when a waiver is signed without
	// a signer name.
	ErrMissingSignerName = errors.New("signer name is required")

	// ErrMissingPassportID is returned when a waiver is signed without
	// a passport or ID number.
	ErrMissingPassportID = errors.New("passport or id number is required")

	// ErrMissingSignerEmail is returned when a waiver is signed
	// without an email address.
	ErrMissingSignerEmail = errors.New("signer email is required")

	// ErrMissingSignature is returned when a waiver is signed without
	// a signature image.
	ErrMissingSignature = errors.New("signature is required")
)

// Not-found errors beyond repository.ErrNotFound.
var (
	// ErrParticipantNotFound is returned when a participant index is
	// outside [0, pax count).
	ErrParticipantNotFound = errors.New("participant index does not exist")
)

// Invariant violations: the operation conflicts with current state.
var (
	// ErrInvalidTransition is returned when the guided state machine
	// does not allow the requested status change.
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrBookingNotCancellable is returned when cancelling a confirmed
	// or already cancelled booking through the guided path.
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled in current state")

	// ErrNotConfirmed is returned when checking in a booking that is
	// not confirmed.
	ErrNotConfirmed = errors.New("booking is not confirmed")

	// ErrNegativeAmount is returned when a payment amount is below zero.
	ErrNegativeAmount = errors.New("payment amount cannot be negative")

	// ErrAmountExceedsTotal is returned when a payment amount would
	// exceed the effective total.
	ErrAmountExceedsTotal = errors.New("payment amount exceeds effective total")

	// ErrAmountMismatch is returned when a guided mark-paid amount
	// does not equal the expected deposit or full total.
	ErrAmountMismatch = errors.New("payment amount does not match expected tier amount")
)
