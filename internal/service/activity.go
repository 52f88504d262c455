package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/domain"
	"tourbook/internal/logger"
	"tourbook/internal/repository"
)

// ActivityService appends entries to the audit trail and reads them
// back. Writes are best-effort: a failed append is logged and never
// surfaced to the operation that produced the entry.
type ActivityService struct {
	repo repository.ActivityRepository
	now  Clock
}

// NewActivityService creates a new ActivityService. A nil clock
// defaults to time.Now.
func NewActivityService(repo repository.ActivityRepository, clock Clock) *ActivityService {
	if clock == nil {
		clock = time.Now
	}
	return &ActivityService{repo: repo, now: clock}
}

// Record appends one entry. Missing id, level and timestamp are filled
// in. Failures are logged and swallowed.
func (s *ActivityService) Record(ctx context.Context, e *domain.ActivityEntry) {
	if s == nil || s.repo == nil {
		return
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Level == "" {
		e.Level = domain.LevelInfo
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	if err := s.repo.Append(ctx, e); err != nil {
		logger.Log.WithError(err).WithFields(map[string]any{
			"booking_id": e.BookingID,
			"action":     e.Action,
		}).Warn("activity log write failed")
	}
}

const defaultHistoryPageSize = 50

// History returns one page of entries for a booking, newest first.
func (s *ActivityService) History(ctx context.Context, bookingID string, limit, offset int) ([]*domain.ActivityEntry, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByBooking(ctx, bookingID, limit, offset)
}
