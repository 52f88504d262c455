package domain

import "time"

// ActorType identifies who performed an audited action.
type ActorType string

const (
	ActorAdmin    ActorType = "admin"
	ActorCustomer ActorType = "customer"
	ActorSystem   ActorType = "system"
)

// ActivityLevel is the severity of an activity entry.
type ActivityLevel string

const (
	LevelInfo    ActivityLevel = "info"
	LevelWarning ActivityLevel = "warning"
)

// Action codes recorded in the activity log. Manual corrections and
// forced status edits carry their own codes so they stay
// distinguishable from the guided paths.
const (
	ActionBookingSubmitted      = "booking_submitted"
	ActionBookingApproved       = "booking_approved"
	ActionPaymentRequestResent  = "payment_request_resent"
	ActionPaymentSlipUploaded   = "payment_slip_uploaded"
	ActionBookingConfirmed      = "booking_confirmed"
	ActionConfirmationResent    = "confirmation_resent"
	ActionBookingCancelled      = "booking_cancelled"
	ActionBookingDeleted        = "booking_deleted"
	ActionStatusForced          = "status_forced"
	ActionCustomTotalSet        = "custom_total_set"
	ActionPaymentOptionSelected = "payment_option_selected"
	ActionPaymentMarked         = "payment_marked"
	ActionPaymentCorrected      = "payment_corrected"
	ActionWaiverSigned          = "waiver_signed"
	ActionWaiverLinkSent        = "waiver_link_sent"
	ActionCheckedIn             = "checked_in"
	ActionCheckInUndone         = "check_in_undone"
)

// ActivityEntry is one immutable row in the append-only audit trail.
type ActivityEntry struct {
	ID          string
	BookingID   string
	Action      string
	Description string
	Actor       ActorType
	ActorEmail  string
	Metadata    map[string]any
	Level       ActivityLevel
	CreatedAt   time.Time
}
