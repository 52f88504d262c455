package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	DeleteError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) GetByTrackingToken(ctx context.Context, token string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.TrackingToken == token {
			copy := *b
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bookings[b.ID]
	if !ok {
		return repository.ErrNotFound
	}
	// Mirror the optimistic versioning of the real repository.
	if stored.Version != b.Version {
		return repository.ErrConflict
	}
	b.Version++
	copy := *b
	m.bookings[b.ID] = &copy
	return nil
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of stored bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	// Error injection
	GetError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes: make(map[string]*domain.Route),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(r *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[r.ID] = r
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *MockRouteRepository) GetBySlug(ctx context.Context, slug string) (*domain.Route, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.routes {
		if r.Slug == slug {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Route, 0, len(m.routes))
	for _, r := range m.routes {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK ACTIVITY REPOSITORY
// ──────────────────────────────────────────────

// MockActivityRepository is a mock implementation of ActivityRepository.
type MockActivityRepository struct {
	mu      sync.RWMutex
	entries []*domain.ActivityEntry

	// Counters
	AppendCallCount int32

	// Error injection
	AppendError error
}

// NewMockActivityRepository creates a new mock activity repository.
func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{
		entries: make([]*domain.ActivityEntry, 0),
	}
}

func (m *MockActivityRepository) Append(ctx context.Context, e *domain.ActivityEntry) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *e
	m.entries = append(m.entries, &copy)
	return nil
}

func (m *MockActivityRepository) ListByBooking(ctx context.Context, bookingID string, limit, offset int) ([]*domain.ActivityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := make([]*domain.ActivityEntry, 0)
	for _, e := range m.entries {
		if e.BookingID == bookingID {
			matched = append(matched, e)
		}
	}
	// Newest first.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	if offset >= len(matched) {
		return []*domain.ActivityEntry{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// EntriesFor returns all recorded entries for a booking, oldest first.
func (m *MockActivityRepository) EntriesFor(bookingID string) []*domain.ActivityEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ActivityEntry, 0)
	for _, e := range m.entries {
		if e.BookingID == bookingID {
			result = append(result, e)
		}
	}
	return result
}

// LastEntry returns the most recent entry for a booking, or nil.
func (m *MockActivityRepository) LastEntry(bookingID string) *domain.ActivityEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].BookingID == bookingID {
			return m.entries[i]
		}
	}
	return nil
}

// CountActions returns how many entries carry the given action code.
func (m *MockActivityRepository) CountActions(bookingID, action string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.entries {
		if e.BookingID == bookingID && e.Action == action {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	// Counters
	UpsertCallCount int32

	// Error injection
	UpsertError error
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

func (m *MockCustomerRepository) Upsert(ctx context.Context, c *domain.Customer) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.customers[c.Email]
	if ok {
		existing.Name = c.Name
		existing.Phone = c.Phone
		existing.TotalBookings++
		existing.LastBookingAt = c.LastBookingAt
		return nil
	}
	copy := *c
	copy.TotalBookings = 1
	m.customers[c.Email] = &copy
	return nil
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// SentMail is one captured outbound email.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mu   sync.Mutex
	sent []SentMail

	// Counters
	SendCallCount int32

	// Error injection
	SendError error
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	atomic.AddInt32(&m.SendCallCount, 1)
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Sent returns all captured emails.
func (m *MockNotifier) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]SentMail, len(m.sent))
	copy(result, m.sent)
	return result
}

// LastSent returns the most recent email, or nil.
func (m *MockNotifier) LastSent() *SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	last := m.sent[len(m.sent)-1]
	return &last
}

// ──────────────────────────────────────────────
// MOCK FILE STORE
// ──────────────────────────────────────────────

// MockFileStore is a mock implementation of FileStore.
type MockFileStore struct {
	mu    sync.Mutex
	files map[string][]byte

	// Counters
	StoreCallCount int32

	// Error injection
	StoreError error
}

// NewMockFileStore creates a new mock file store.
func NewMockFileStore() *MockFileStore {
	return &MockFileStore{
		files: make(map[string][]byte),
	}
}

func (m *MockFileStore) Store(ctx context.Context, name string, data []byte) (string, error) {
	atomic.AddInt32(&m.StoreCallCount, 1)
	if m.StoreError != nil {
		return "", m.StoreError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
	return "https://files.test/" + name, nil
}

// Has checks whether a file was stored under the given name.
func (m *MockFileStore) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

// CountFiles returns the number of stored files.
func (m *MockFileStore) CountFiles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// ──────────────────────────────────────────────
// MOCK CREDENTIAL GENERATOR
// ──────────────────────────────────────────────

// MockCredentialGenerator is a mock implementation of CredentialGenerator.
type MockCredentialGenerator struct {
	// Counters
	EncodeCallCount int32

	// Error injection
	EncodeError error
}

// NewMockCredentialGenerator creates a new mock credential generator.
func NewMockCredentialGenerator() *MockCredentialGenerator {
	return &MockCredentialGenerator{}
}

func (m *MockCredentialGenerator) Encode(payload string) ([]byte, error) {
	atomic.AddInt32(&m.EncodeCallCount, 1)
	if m.EncodeError != nil {
		return nil, m.EncodeError
	}
	return []byte(fmt.Sprintf("png:%s", payload)), nil
}

// ──────────────────────────────────────────────
// MOCK ROUTE CACHE
// ──────────────────────────────────────────────

// MockRouteCache is a mock implementation of RouteCache.
type MockRouteCache struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	// Counters
	GetCallCount int32
	SetCallCount int32

	// Error injection
	GetError error
	SetError error
}

// NewMockRouteCache creates a new mock route cache.
func NewMockRouteCache() *MockRouteCache {
	return &MockRouteCache{
		routes: make(map[string]*domain.Route),
	}
}

func (m *MockRouteCache) Get(ctx context.Context, routeID string) (*domain.Route, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.routes[routeID]
	if !ok {
		return nil, nil // Cache miss.
	}
	copy := *r
	return &copy, nil
}

func (m *MockRouteCache) Set(ctx context.Context, route *domain.Route) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *route
	m.routes[route.ID] = &copy
	return nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockSMTPDown     = errors.New("mock: smtp connection refused")
	ErrMockDiskFull     = errors.New("mock: disk full")
)
