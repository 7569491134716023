package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/redis"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
// The MarkX methods emulate the conditioned updates of the real store:
// a transition whose source status no longer holds returns ErrConflict.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.Request

	// Counters for verification
	CreateCallCount       int32
	MarkAcceptedCallCount int32

	// Error injection
	CreateError error
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.Request),
	}
}

// AddRequest adds a request to the mock repository.
func (m *MockRequestRepository) AddRequest(request *domain.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = request
}

func (m *MockRequestRepository) Create(ctx context.Context, request *domain.Request) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = request
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	request, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *request
	return &copy, nil
}

func (m *MockRequestRepository) ListPending(ctx context.Context, vehicleType domain.VehicleType) ([]*domain.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Request, 0, len(m.requests))
	for _, r := range m.requests {
		if r.Status != domain.RequestStatusPending {
			continue
		}
		if vehicleType != "" && r.VehicleType != vehicleType {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRequestRepository) MarkAccepted(ctx context.Context, id, offerID, paymentID string) error {
	atomic.AddInt32(&m.MarkAcceptedCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if request.Status != domain.RequestStatusPending {
		return repository.ErrConflict
	}
	request.Status = domain.RequestStatusAccepted
	request.AcceptedOfferID = offerID
	request.PaymentID = paymentID
	return nil
}

func (m *MockRequestRepository) MarkCompleted(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if request.Status != domain.RequestStatusAccepted {
		return repository.ErrConflict
	}
	request.Status = domain.RequestStatusCompleted
	return nil
}

func (m *MockRequestRepository) MarkCancelled(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if request.Status != domain.RequestStatusPending && request.Status != domain.RequestStatusAccepted {
		return repository.ErrConflict
	}
	request.Status = domain.RequestStatusCancelled
	return nil
}

// GetRequest returns the request by ID (for test assertions).
func (m *MockRequestRepository) GetRequest(id string) *domain.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

func (m *MockRequestRepository) snapshot() map[string]*domain.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Request, len(m.requests))
	for id, r := range m.requests {
		copy := *r
		snap[id] = &copy
	}
	return snap
}

func (m *MockRequestRepository) restore(snap map[string]*domain.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = snap
}

// ──────────────────────────────────────────────
// MOCK OFFER REPOSITORY
// ──────────────────────────────────────────────

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mu     sync.RWMutex
	offers map[string]*domain.Offer

	// Counters
	CreateCallCount int32
	ReopenCallCount int32

	// Error injection
	CreateError error
}

// NewMockOfferRepository creates a new mock offer repository.
func NewMockOfferRepository() *MockOfferRepository {
	return &MockOfferRepository{
		offers: make(map[string]*domain.Offer),
	}
}

// AddOffer adds an offer to the mock repository.
func (m *MockOfferRepository) AddOffer(offer *domain.Offer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offers[offer.ID] = offer
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// The real table is unique on (request_id, driver_id).
	for _, o := range m.offers {
		if o.RequestID == offer.RequestID && o.DriverID == offer.DriverID {
			return repository.ErrConflict
		}
	}
	m.offers[offer.ID] = offer
	return nil
}

func (m *MockOfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	offer, ok := m.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *offer
	return &copy, nil
}

func (m *MockOfferRepository) GetByRequestAndDriver(ctx context.Context, requestID, driverID string) (*domain.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.offers {
		if o.RequestID == requestID && o.DriverID == driverID {
			copy := *o
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockOfferRepository) ListByRequest(ctx context.Context, requestID string) ([]*domain.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Offer, 0)
	for _, o := range m.offers {
		if o.RequestID == requestID {
			copy := *o
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockOfferRepository) Reopen(ctx context.Context, id string, price float64, at time.Time) error {
	atomic.AddInt32(&m.ReopenCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if offer.Status != domain.OfferStatusRejected {
		return repository.ErrConflict
	}
	offer.Status = domain.OfferStatusPending
	offer.OfferedPrice = price
	offer.CreatedAt = at
	return nil
}

func (m *MockOfferRepository) MarkAccepted(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if offer.Status != domain.OfferStatusPending {
		return repository.ErrConflict
	}
	offer.Status = domain.OfferStatusAccepted
	return nil
}

func (m *MockOfferRepository) MarkRejected(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if offer.Status != domain.OfferStatusPending {
		return repository.ErrConflict
	}
	offer.Status = domain.OfferStatusRejected
	return nil
}

func (m *MockOfferRepository) RejectPendingByRequest(ctx context.Context, requestID, exceptOfferID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.offers {
		if o.RequestID == requestID && o.Status == domain.OfferStatusPending && o.ID != exceptOfferID {
			o.Status = domain.OfferStatusRejected
		}
	}
	return nil
}

// GetOffer returns the offer by ID (for test assertions).
func (m *MockOfferRepository) GetOffer(id string) *domain.Offer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offers[id]
}

// CountOffers returns the number of offer rows.
func (m *MockOfferRepository) CountOffers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.offers)
}

// CountByStatus counts a request's offers in the given status.
func (m *MockOfferRepository) CountByStatus(requestID string, status domain.OfferStatus) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, o := range m.offers {
		if o.RequestID == requestID && o.Status == status {
			count++
		}
	}
	return count
}

func (m *MockOfferRepository) snapshot() map[string]*domain.Offer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Offer, len(m.offers))
	for id, o := range m.offers {
		copy := *o
		snap[id] = &copy
	}
	return snap
}

func (m *MockOfferRepository) restore(snap map[string]*domain.Offer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offers = snap
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	return nil
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// GetPayment returns payment for assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

func (m *MockPaymentRepository) snapshot() map[string]*domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Payment, len(m.payments))
	for id, p := range m.payments {
		copy := *p
		snap[id] = &copy
	}
	return snap
}

func (m *MockPaymentRepository) restore(snap map[string]*domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = snap
}

// ──────────────────────────────────────────────
// MOCK RECEIPT REPOSITORY
// ──────────────────────────────────────────────

// MockReceiptRepository is a mock implementation of ReceiptRepository.
// Like the real table it holds at most one receipt per request and
// silently ignores duplicate inserts.
type MockReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]*domain.Receipt // keyed by request ID

	// Counters
	CreateCallCount int32
}

// NewMockReceiptRepository creates a new mock receipt repository.
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{
		receipts: make(map[string]*domain.Receipt),
	}
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.receipts[receipt.RequestID]; exists {
		return nil // duplicate insert is a no-op
	}
	m.receipts[receipt.RequestID] = receipt
	return nil
}

func (m *MockReceiptRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	receipt, ok := m.receipts[requestID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *receipt
	return &copy, nil
}

// CountReceipts returns the number of receipts.
func (m *MockReceiptRepository) CountReceipts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.receipts)
}

func (m *MockReceiptRepository) snapshot() map[string]*domain.Receipt {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Receipt, len(m.receipts))
	for id, r := range m.receipts {
		copy := *r
		snap[id] = &copy
	}
	return snap
}

func (m *MockReceiptRepository) restore(snap map[string]*domain.Receipt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = snap
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION RUNNER
// ──────────────────────────────────────────────

// MockTxRunner executes transactional functions against the in-memory
// mocks. Transactions are serialized by a mutex, and on error every
// store is restored from a snapshot taken at begin, which reproduces
// the commit-or-rollback behavior the services rely on.
type MockTxRunner struct {
	mu sync.Mutex

	Requests *MockRequestRepository
	Offers   *MockOfferRepository
	Payments *MockPaymentRepository
	Receipts *MockReceiptRepository

	// Counters
	InTxCallCount int32

	// Error injection
	BeginError error
}

// NewMockTxRunner creates a transaction runner over the given mocks.
func NewMockTxRunner(
	requests *MockRequestRepository,
	offers *MockOfferRepository,
	payments *MockPaymentRepository,
	receipts *MockReceiptRepository,
) *MockTxRunner {
	return &MockTxRunner{
		Requests: requests,
		Offers:   offers,
		Payments: payments,
		Receipts: receipts,
	}
}

func (m *MockTxRunner) InTx(ctx context.Context, fn func(s repository.Stores) error) error {
	atomic.AddInt32(&m.InTxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	requestSnap := m.Requests.snapshot()
	offerSnap := m.Offers.snapshot()
	paymentSnap := m.Payments.snapshot()
	receiptSnap := m.Receipts.snapshot()

	err := fn(repository.Stores{
		Requests: m.Requests,
		Offers:   m.Offers,
		Payments: m.Payments,
		Receipts: m.Receipts,
	})
	if err != nil {
		m.Requests.restore(requestSnap)
		m.Offers.restore(offerSnap)
		m.Payments.restore(paymentSnap)
		m.Receipts.restore(receiptSnap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters
	CreateCallCount  int32
	GetByIDCallCount int32

	// Error injection
	CreateError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.Phone == phone {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) UpdateApproval(ctx context.Context, id string, status domain.ApprovalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.ApprovalStatus = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER CACHE
// ──────────────────────────────────────────────

// MockDriverCache is an in-memory implementation of the driver cache.
type MockDriverCache struct {
	mu      sync.RWMutex
	drivers map[string]*redis.CachedDriver

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
}

// NewMockDriverCache creates a new mock driver cache.
func NewMockDriverCache() *MockDriverCache {
	return &MockDriverCache{
		drivers: make(map[string]*redis.CachedDriver),
	}
}

func (m *MockDriverCache) GetDriver(ctx context.Context, driverID string) (*redis.CachedDriver, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[driverID]
	if !ok {
		return nil, nil // cache miss
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverCache) SetDriver(ctx context.Context, driver *redis.CachedDriver) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverCache) InvalidateDriver(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drivers, driverID)
	return nil
}

// HasDriver checks if a driver is cached (for test assertions).
func (m *MockDriverCache) HasDriver(driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.drivers[driverID]
	return ok
}

// ──────────────────────────────────────────────
// RECORDING NOTIFICATION SENDER
// ──────────────────────────────────────────────

// SentNotification is one delivered notification.
type SentNotification struct {
	UserID  string
	Event   service.EventType
	Payload map[string]any
}

// RecordingSender records every notification for assertions.
type RecordingSender struct {
	mu   sync.Mutex
	sent []SentNotification

	// Error injection
	SendError error
}

// NewRecordingSender creates a new recording sender.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

func (s *RecordingSender) Send(ctx context.Context, userID string, event service.EventType, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SendError != nil {
		return s.SendError
	}
	s.sent = append(s.sent, SentNotification{UserID: userID, Event: event, Payload: payload})
	return nil
}

// Sent returns a copy of all recorded notifications.
func (s *RecordingSender) Sent() []SentNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]SentNotification, len(s.sent))
	copy(result, s.sent)
	return result
}

// CountByEvent counts recorded notifications of the given event type.
func (s *RecordingSender) CountByEvent(event service.EventType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.sent {
		if n.Event == event {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// STUB GEOCODER
// ──────────────────────────────────────────────

// StubGeocoder returns a fixed address, or an error when configured.
type StubGeocoder struct {
	Address string
	Err     error

	CallCount int32
}

func (g *StubGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	atomic.AddInt32(&g.CallCount, 1)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Address, nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
