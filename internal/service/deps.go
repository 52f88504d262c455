package service

import (
	"context"
	"time"

	"tourbook/internal/domain"
)

// Notifier delivers an email to a single recipient. Send failures are
// never fatal to the operation that triggered them: callers log and
// continue, because the persisted state change is the fact of record.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// FileStore persists an uploaded blob and returns a public URL for it.
// Used for payment slips and waiver signatures; only the returned
// reference is stored on the booking.
type FileStore interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// CredentialGenerator encodes a check-in payload into an image, used
// to produce the QR artifact attached to confirmation emails.
type CredentialGenerator interface {
	Encode(payload string) ([]byte, error)
}

// RouteCache is an optional read-through cache in front of the route
// repository. A nil cache and a cache miss both fall through to the
// repository; cache errors are treated as misses.
type RouteCache interface {
	Get(ctx context.Context, routeID string) (*domain.Route, error)
	Set(ctx context.Context, route *domain.Route) error
}

// Clock supplies the current time. Injectable so tests can pin
// timestamps; a nil Clock defaults to time.Now.
type Clock func() time.Time
