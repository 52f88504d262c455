package service

import (
	"context"
	"fmt"

	"tourbook/internal/domain"
	"tourbook/internal/logger"
)

// Email subject/body builders for the customer-facing notifications.
// Bodies are small self-contained HTML fragments; delivery itself is
// the Notifier's concern.

func buildAcknowledgmentEmail(b *domain.Booking, trackURL string) (subject, body string) {
	subject = "We received your booking request"
	body = fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for your booking request for %d rider(s). Our team will
		review it and send payment instructions shortly.</p>
		<p>You can follow your booking here: <a href="%s">%s</a></p>`,
		b.CustomerName, b.PaxCount, trackURL, trackURL)
	return subject, body
}

func buildPaymentRequestEmail(b *domain.Booking, total, deposit float64, trackURL string) (subject, body string) {
	subject = "Your tour booking is approved - payment details"
	body = fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking for %d rider(s) has been approved.</p>
		<p>Total: <strong>%.2f</strong><br>
		Deposit (50%%): <strong>%.2f</strong></p>
		<p>Please transfer either the deposit or the full amount and
		upload your payment slip on the tracking page:
		<a href="%s">%s</a></p>`,
		b.CustomerName, b.PaxCount, total, deposit, trackURL, trackURL)
	return subject, body
}

func buildPaymentReceivedEmail(b *domain.Booking, amount, remaining float64) (subject, body string) {
	subject = "Payment received"
	body = fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We have recorded your payment of <strong>%.2f</strong>.</p>
		<p>Remaining balance: <strong>%.2f</strong></p>`,
		b.CustomerName, amount, remaining)
	return subject, body
}

func buildConfirmationEmail(b *domain.Booking, qrURL string) (subject, body string) {
	subject = "Your tour booking is confirmed"
	body = fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking is confirmed. We look forward to riding with you!</p>`,
		b.CustomerName)
	if qrURL != "" {
		body += fmt.Sprintf(`
		<p>Show this QR code at check-in on tour day:</p>
		<p><img src="%s" alt="check-in code" width="256" height="256"></p>`, qrURL)
	}
	return subject, body
}

func buildWaiverLinkEmail(b *domain.Booking, participantName, signURL string) (subject, body string) {
	subject = "Please sign your tour liability waiver"
	name := participantName
	if name == "" {
		name = "there"
	}
	body = fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are listed as a rider on a booking by %s. Before the
		tour, please sign your liability waiver here:
		<a href="%s">%s</a></p>`,
		name, b.CustomerName, signURL, signURL)
	return subject, body
}

// notify is the shared fire-and-forget send path. Errors are logged
// and discarded so a failed email never fails the triggering
// operation.
func notify(ctx context.Context, n Notifier, bookingID, to, subject, body string) {
	if n == nil || to == "" {
		return
	}
	if err := n.Send(ctx, to, subject, body); err != nil {
		logger.Log.WithError(err).WithField("booking_id", bookingID).Warn("notification send failed")
	}
}
