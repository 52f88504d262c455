package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"pending to awaiting payment", BookingStatusPendingReview, BookingStatusAwaitingPayment, true},
		{"awaiting payment to uploaded", BookingStatusAwaitingPayment, BookingStatusPaymentUploaded, true},
		{"uploaded to confirmed", BookingStatusPaymentUploaded, BookingStatusConfirmed, true},
		{"pending to confirmed skips steps", BookingStatusPendingReview, BookingStatusConfirmed, false},
		{"pending to uploaded skips steps", BookingStatusPendingReview, BookingStatusPaymentUploaded, false},
		{"confirmed back to awaiting payment", BookingStatusConfirmed, BookingStatusAwaitingPayment, false},
		{"cancel from pending", BookingStatusPendingReview, BookingStatusCancelled, true},
		{"cancel from awaiting payment", BookingStatusAwaitingPayment, BookingStatusCancelled, true},
		{"cancel from uploaded", BookingStatusPaymentUploaded, BookingStatusCancelled, true},
		{"cancel from confirmed", BookingStatusConfirmed, BookingStatusCancelled, false},
		{"cancel from cancelled", BookingStatusCancelled, BookingStatusCancelled, false},
		{"revive cancelled booking", BookingStatusCancelled, BookingStatusPendingReview, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestBookingStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, BookingStatusPendingReview.Valid())
	assert.True(t, BookingStatusCancelled.Valid())
	assert.False(t, BookingStatus("").Valid())
	assert.False(t, BookingStatus("LOST").Valid())
}

func TestPaymentOptionValid(t *testing.T) {
	t.Parallel()

	assert.True(t, PaymentOptionDeposit50.Valid())
	assert.True(t, PaymentOptionFull100.Valid())
	assert.True(t, PaymentOptionPayAtVenue.Valid())
	assert.False(t, PaymentOptionNone.Valid())
	assert.False(t, PaymentOption("iou").Valid())
}

func TestUpsertWaiverReplacesSameIndex(t *testing.T) {
	t.Parallel()

	b := &Booking{PaxCount: 2}

	b.UpsertWaiver(WaiverRecord{ParticipantIndex: 0, SignerName: "Ada", Signed: true})
	b.UpsertWaiver(WaiverRecord{ParticipantIndex: 0, SignerName: "Guardian", Signed: true})

	assert.Len(t, b.Waivers, 1)
	rec, ok := b.Waiver(0)
	assert.True(t, ok)
	assert.Equal(t, "Guardian", rec.SignerName)
}

func TestWaiversComplete(t *testing.T) {
	t.Parallel()

	b := &Booking{PaxCount: 2}
	assert.False(t, b.WaiversComplete(), "no records")

	b.UpsertWaiver(WaiverRecord{ParticipantIndex: 0, Signed: true, SignedAt: time.Now()})
	assert.False(t, b.WaiversComplete(), "one of two")

	b.UpsertWaiver(WaiverRecord{ParticipantIndex: 1, Signed: false})
	assert.False(t, b.WaiversComplete(), "unsigned record does not count")

	b.UpsertWaiver(WaiverRecord{ParticipantIndex: 1, Signed: true, SignedAt: time.Now()})
	assert.True(t, b.WaiversComplete())
}

func TestWaiversCompleteZeroPax(t *testing.T) {
	t.Parallel()

	b := &Booking{PaxCount: 0}
	assert.False(t, b.WaiversComplete())
}
