package tests

import (
	"context"
	"errors"
	"testing"

	"tourbook/internal/domain"
	"tourbook/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT TRACKING
// ──────────────────────────────────────────────

// paymentEnv bundles the collaborators payment tests need. The seeded
// route prices a 3-rider group at 2600 (1000 + 800 + 800), so the
// deposit tier is 1300.
type paymentEnv struct {
	bookings    *MockBookingRepository
	routes      *MockRouteRepository
	activityLog *MockActivityRepository
	notifier    *MockNotifier
	svc         *service.PaymentService
}

func newPaymentEnv() *paymentEnv {
	env := &paymentEnv{
		bookings:    NewMockBookingRepository(),
		routes:      NewMockRouteRepository(),
		activityLog: NewMockActivityRepository(),
		notifier:    NewMockNotifier(),
	}
	env.routes.AddRoute(&domain.Route{
		ID:              "route-1",
		PricePerPerson:  1000,
		DiscountType:    domain.DiscountFixed,
		DiscountValue:   200,
		DiscountFromPax: 2,
	})
	activity := service.NewActivityService(env.activityLog, nil)
	env.svc = service.NewPaymentService(env.bookings, env.routes, activity, env.notifier, nil)
	return env
}

func (env *paymentEnv) addBooking(pax int) *domain.Booking {
	b := &domain.Booking{
		ID:            "bk-1",
		TrackingToken: "tok-1",
		RouteID:       "route-1",
		CustomerEmail: "ada@example.com",
		PaxCount:      pax,
		Status:        domain.BookingStatusPaymentUploaded,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}
	env.bookings.AddBooking(b)
	return b
}

func TestSelectOption_RecordsChoiceWithoutTouchingAmounts(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)

	updated, err := env.svc.SelectOption(context.Background(), "tok-1", domain.PaymentOptionDeposit50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentOption != domain.PaymentOptionDeposit50 {
		t.Errorf("expected option %s, got %s", domain.PaymentOptionDeposit50, updated.PaymentOption)
	}
	if updated.PaymentStatus != domain.PaymentStatusUnpaid || updated.AmountPaid != 0 {
		t.Error("selecting an option must not change payment status or amount")
	}
}

func TestSelectOption_UnknownOptionRejected(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)

	_, err := env.svc.SelectOption(context.Background(), "tok-1", domain.PaymentOption("iou"))
	if !errors.Is(err, service.ErrInvalidPaymentOption) {
		t.Fatalf("expected ErrInvalidPaymentOption, got %v", err)
	}
}

func TestMarkPaid_DepositTierExactAmount(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)

	updated, err := env.svc.MarkPaid(context.Background(), "bk-1", domain.PaymentStatusDepositPaid, 1300, "admin@tours.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentStatusDepositPaid {
		t.Errorf("expected status %s, got %s", domain.PaymentStatusDepositPaid, updated.PaymentStatus)
	}
	if updated.AmountPaid != 1300 {
		t.Errorf("expected amount 1300, got %.2f", updated.AmountPaid)
	}

	// Receipt email and audit entry follow a successful mark.
	if env.notifier.SendCallCount != 1 {
		t.Errorf("expected 1 email, got %d", env.notifier.SendCallCount)
	}
	entry := env.activityLog.LastEntry("bk-1")
	if entry == nil || entry.Action != domain.ActionPaymentMarked {
		t.Errorf("expected %s activity entry, got %+v", domain.ActionPaymentMarked, entry)
	}
}

func TestMarkPaid_FullTierExactAmount(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)

	updated, err := env.svc.MarkPaid(context.Background(), "bk-1", domain.PaymentStatusFullyPaid, 2600, "admin@tours.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentStatusFullyPaid || updated.AmountPaid != 2600 {
		t.Errorf("expected fully_paid / 2600, got %s / %.2f", updated.PaymentStatus, updated.AmountPaid)
	}
}

func TestMarkPaid_AmountMismatchRejected(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)

	// 1200 is neither the deposit (1300) nor the total (2600).
	_, err := env.svc.MarkPaid(context.Background(), "bk-1", domain.PaymentStatusDepositPaid, 1200, "admin@tours.test")
	if !errors.Is(err, service.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}

	stored := env.bookings.GetBooking("bk-1")
	if stored.PaymentStatus != domain.PaymentStatusUnpaid || stored.AmountPaid != 0 {
		t.Error("a rejected mark must leave payment state untouched")
	}
	if env.notifier.SendCallCount != 0 {
		t.Error("no email may be sent for a rejected mark")
	}
}

func TestMarkPaid_UnpaidTierRejected(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)

	_, err := env.svc.MarkPaid(context.Background(), "bk-1", domain.PaymentStatusUnpaid, 0, "admin@tours.test")
	if !errors.Is(err, service.ErrInvalidPaymentStatus) {
		t.Fatalf("expected ErrInvalidPaymentStatus, got %v", err)
	}
}

func TestMarkPaid_AmountBounds(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)
	ctx := context.Background()

	if _, err := env.svc.MarkPaid(ctx, "bk-1", domain.PaymentStatusFullyPaid, -1, "admin@tours.test"); !errors.Is(err, service.ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
	if _, err := env.svc.MarkPaid(ctx, "bk-1", domain.PaymentStatusFullyPaid, 2601, "admin@tours.test"); !errors.Is(err, service.ErrAmountExceedsTotal) {
		t.Errorf("expected ErrAmountExceedsTotal, got %v", err)
	}
}

func TestMarkPaid_RespectsCustomTotal(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	b := env.addBooking(3)
	custom := 2000.0
	b.CustomTotal = &custom

	// Deposit tier against the custom total: ceil(2000 * 0.5) = 1000.
	updated, err := env.svc.MarkPaid(context.Background(), "bk-1", domain.PaymentStatusDepositPaid, 1000, "admin@tours.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AmountPaid != 1000 {
		t.Errorf("expected amount 1000, got %.2f", updated.AmountPaid)
	}
}

func TestCorrect_AcceptsAnyValidCombination(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status domain.PaymentStatus
		amount float64
	}{
		{domain.PaymentStatusUnpaid, 0},
		{domain.PaymentStatusDepositPaid, 700},  // Not the computed deposit.
		{domain.PaymentStatusFullyPaid, 2500},   // Not the computed total.
		{domain.PaymentStatusDepositPaid, 2600}, // Full amount under deposit status.
	}

	for _, tc := range cases {
		env := newPaymentEnv()
		env.addBooking(3)

		updated, err := env.svc.Correct(context.Background(), "bk-1", tc.status, tc.amount, "admin@tours.test")
		if err != nil {
			t.Errorf("correct to %s / %.2f: unexpected error: %v", tc.status, tc.amount, err)
			continue
		}
		if updated.PaymentStatus != tc.status || updated.AmountPaid != tc.amount {
			t.Errorf("correct to %s / %.2f: got %s / %.2f", tc.status, tc.amount, updated.PaymentStatus, updated.AmountPaid)
		}
	}
}

func TestCorrect_StillEnforcesAmountBounds(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)
	ctx := context.Background()

	if _, err := env.svc.Correct(ctx, "bk-1", domain.PaymentStatusFullyPaid, -5, "admin@tours.test"); !errors.Is(err, service.ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
	if _, err := env.svc.Correct(ctx, "bk-1", domain.PaymentStatusFullyPaid, 9999, "admin@tours.test"); !errors.Is(err, service.ErrAmountExceedsTotal) {
		t.Errorf("expected ErrAmountExceedsTotal, got %v", err)
	}
}

func TestCorrect_SendsNoEmailAndAuditsPreviousValues(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	b := env.addBooking(3)
	b.PaymentStatus = domain.PaymentStatusDepositPaid
	b.AmountPaid = 1300

	_, err := env.svc.Correct(context.Background(), "bk-1", domain.PaymentStatusFullyPaid, 2600, "admin@tours.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.notifier.SendCallCount != 0 {
		t.Errorf("corrections must not email the customer, got %d sends", env.notifier.SendCallCount)
	}

	entry := env.activityLog.LastEntry("bk-1")
	if entry == nil {
		t.Fatal("expected an activity entry")
	}
	if entry.Action != domain.ActionPaymentCorrected {
		t.Errorf("expected action %s, got %s", domain.ActionPaymentCorrected, entry.Action)
	}
	if entry.Level != domain.LevelWarning {
		t.Errorf("corrections must be logged at warning level, got %s", entry.Level)
	}
	if entry.Metadata["previous_status"] != string(domain.PaymentStatusDepositPaid) {
		t.Errorf("expected previous_status in metadata, got %v", entry.Metadata["previous_status"])
	}
	if entry.Metadata["previous_amount"] != 1300.0 {
		t.Errorf("expected previous_amount 1300, got %v", entry.Metadata["previous_amount"])
	}
}

func TestSummarize_RecomputesDepositAndFlagsDrift(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	b := env.addBooking(3)
	b.PaymentStatus = domain.PaymentStatusDepositPaid
	b.AmountPaid = 1300

	summary, err := env.svc.Summarize(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.EffectiveTotal != 2600 || summary.Deposit != 1300 {
		t.Errorf("expected total 2600 / deposit 1300, got %.2f / %.2f", summary.EffectiveTotal, summary.Deposit)
	}
	if summary.Remaining != 1300 {
		t.Errorf("expected remaining 1300, got %.2f", summary.Remaining)
	}
	if summary.DepositOutOfSync {
		t.Error("deposit matches, flag must be clear")
	}

	// An admin sets a custom total after the deposit was taken. The
	// recorded amount no longer equals the recomputed deposit; this is
	// reported, never auto-corrected.
	custom := 2000.0
	b.CustomTotal = &custom

	summary, err = env.svc.Summarize(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.EffectiveTotal != 2000 || summary.Deposit != 1000 {
		t.Errorf("expected total 2000 / deposit 1000, got %.2f / %.2f", summary.EffectiveTotal, summary.Deposit)
	}
	if !summary.DepositOutOfSync {
		t.Error("expected the out-of-sync flag after a custom total edit")
	}
	if b.AmountPaid != 1300 {
		t.Errorf("recorded amount must stay untouched, got %.2f", b.AmountPaid)
	}
}

func TestSetCustomTotal_AfterDepositFlagsDesync(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.addBooking(3)
	activity := service.NewActivityService(env.activityLog, nil)
	bookingSvc := service.NewBookingService(
		env.bookings, env.routes, nil, activity,
		nil, nil, nil, nil, "https://tours.test", nil,
	)
	ctx := context.Background()

	// Deposit taken at the computed amount.
	if _, err := env.svc.MarkPaid(ctx, "bk-1", domain.PaymentStatusDepositPaid, 1300, "admin@tours.test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Admin then overrides the price through the API.
	total := 2000.0
	if _, err := bookingSvc.SetCustomTotal(ctx, "bk-1", &total, "admin@tours.test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := env.bookings.GetByID(ctx, "bk-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.AmountPaid != 1300 {
		t.Errorf("the recorded amount must stay untouched, got %.2f", stored.AmountPaid)
	}

	summary, err := env.svc.Summarize(ctx, stored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.EffectiveTotal != 2000 || summary.Deposit != 1000 {
		t.Errorf("expected total 2000 / deposit 1000, got %.2f / %.2f", summary.EffectiveTotal, summary.Deposit)
	}
	if !summary.DepositOutOfSync {
		t.Error("expected the out-of-sync flag after the override")
	}
}

func TestSummarize_PercentageDiscountScenario(t *testing.T) {
	t.Parallel()

	env := newPaymentEnv()
	env.routes.AddRoute(&domain.Route{
		ID:              "route-2",
		PricePerPerson:  500,
		DiscountType:    domain.DiscountPercentage,
		DiscountValue:   10,
		DiscountFromPax: 3,
	})
	b := &domain.Booking{
		ID:            "bk-2",
		TrackingToken: "tok-2",
		RouteID:       "route-2",
		PaxCount:      4,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}
	env.bookings.AddBooking(b)

	// 500 + 500 + 450 + 450 = 1900, deposit ceil(950) = 950.
	summary, err := env.svc.Summarize(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.EffectiveTotal != 1900 {
		t.Errorf("expected total 1900, got %.2f", summary.EffectiveTotal)
	}
	if summary.Deposit != 950 {
		t.Errorf("expected deposit 950, got %.2f", summary.Deposit)
	}
}
