package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"tengolugar/internal/domain"
	"tengolugar/internal/redis"
	"tengolugar/internal/repository"
)

// ──────────────────────────────────────────────
// IN-MEMORY STORE
// ──────────────────────────────────────────────

// mockStore backs every repository with maps guarded by one mutex.
type mockStore struct {
	mu           sync.Mutex
	trips        map[string]*domain.Trip
	reservations map[string]*domain.TripPassenger
	payments     map[string]*domain.Payment
	payouts      map[string]*domain.DriverPayout
	drivers      map[string]*domain.Driver

	// Counters for verification
	TripTransitionCallCount int32
	PayoutCreateCallCount   int32
	TxCount                 int32
	RollbackCount           int32

	// Error injection
	ListTripsError       error
	CountValidError      error
	PayoutCreateError    error
	PaymentTransitionErr error
	TripTransitionErrors map[string]error // keyed by trip ID

	// beforeTripTransition runs ahead of a trip status check, e.g. to
	// simulate a concurrent writer.
	beforeTripTransition func(id string)
}

func newMockStore() *mockStore {
	return &mockStore{
		trips:        make(map[string]*domain.Trip),
		reservations: make(map[string]*domain.TripPassenger),
		payments:     make(map[string]*domain.Payment),
		payouts:      make(map[string]*domain.DriverPayout),
		drivers:      make(map[string]*domain.Driver),
	}
}

func (s *mockStore) repos() repository.Repos {
	return repository.Repos{
		Trips:        &mockTripRepository{s},
		Reservations: &mockReservationRepository{s},
		Payments:     &mockPaymentRepository{s},
		Payouts:      &mockPayoutRepository{s},
		Drivers:      &mockDriverRepository{s},
	}
}

func (s *mockStore) AddTrip(t *domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[t.ID] = t
}

func (s *mockStore) AddReservation(r *domain.TripPassenger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[r.ID] = r
}

func (s *mockStore) AddPayment(p *domain.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
}

func (s *mockStore) AddPayout(p *domain.DriverPayout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payouts[p.ID] = p
}

func (s *mockStore) AddDriver(d *domain.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[d.ID] = d
}

// Trip returns a copy of a stored trip for assertions.
func (s *mockStore) Trip(id string) domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.trips[id]
}

// Reservation returns a copy of a stored reservation for assertions.
func (s *mockStore) Reservation(id string) domain.TripPassenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.reservations[id]
}

// Payment returns a copy of a stored payment for assertions.
func (s *mockStore) Payment(id string) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.payments[id]
}

// PayoutForTrip returns the stored payout of a trip, or nil.
func (s *mockStore) PayoutForTrip(tripID string) *domain.DriverPayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payouts {
		if p.TripID == tripID {
			c := *p
			return &c
		}
	}
	return nil
}

func (s *mockStore) PayoutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payouts)
}

type storeSnapshot struct {
	trips        map[string]domain.Trip
	reservations map[string]domain.TripPassenger
	payments     map[string]domain.Payment
	payouts      map[string]domain.DriverPayout
}

func (s *mockStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storeSnapshot{
		trips:        copyValues(s.trips),
		reservations: copyValues(s.reservations),
		payments:     copyValues(s.payments),
		payouts:      copyValues(s.payouts),
	}
}

func (s *mockStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = toPointers(snap.trips)
	s.reservations = toPointers(snap.reservations)
	s.payments = toPointers(snap.payments)
	s.payouts = toPointers(snap.payouts)
}

func copyValues[T any](m map[string]*T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = *v
	}
	return out
}

func toPointers[T any](m map[string]T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		v := v
		out[k] = &v
	}
	return out
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// mockTransactor runs fn against the store and restores the previous state
// when fn fails.
type mockTransactor struct {
	store *mockStore
}

func (t *mockTransactor) WithinTx(ctx context.Context, fn func(repository.Repos) error) error {
	atomic.AddInt32(&t.store.TxCount, 1)
	snap := t.store.snapshot()
	if err := fn(t.store.repos()); err != nil {
		atomic.AddInt32(&t.store.RollbackCount, 1)
		t.store.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

type mockTripRepository struct{ s *mockStore }

func (m *mockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (m *mockTripRepository) ListByStatuses(ctx context.Context, statuses []domain.TripStatus) ([]*domain.Trip, error) {
	if m.s.ListTripsError != nil {
		return nil, m.s.ListTripsError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.Trip
	for _, t := range m.s.trips {
		for _, st := range statuses {
			if t.Status == st {
				c := *t
				out = append(out, &c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTripRepository) ListCompletedWithoutPayout(ctx context.Context, limit int) ([]*domain.Trip, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	paid := make(map[string]bool)
	for _, p := range m.s.payouts {
		paid[p.TripID] = true
	}
	var out []*domain.Trip
	for _, t := range m.s.trips {
		if t.Status == domain.TripStatusCompleted && !paid[t.ID] {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTripRepository) TransitionStatus(ctx context.Context, id string, from, to domain.TripStatus) error {
	atomic.AddInt32(&m.s.TripTransitionCallCount, 1)
	if m.s.beforeTripTransition != nil {
		m.s.beforeTripTransition(id)
	}
	if err := m.s.TripTransitionErrors[id]; err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.trips[id]
	if !ok || t.Status != from {
		return repository.ErrStatusConflict
	}
	t.Status = to
	return nil
}

func (m *mockTripRepository) ReserveSeats(ctx context.Context, id string, seats int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	if t.RemainingSeats < seats {
		return repository.ErrInsufficientSeats
	}
	t.RemainingSeats -= seats
	return nil
}

func (m *mockTripRepository) ReleaseSeats(ctx context.Context, id string, seats int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.RemainingSeats = min(t.AvailableSeats, t.RemainingSeats+seats)
	return nil
}

// ──────────────────────────────────────────────
// MOCK RESERVATION REPOSITORY
// ──────────────────────────────────────────────

type mockReservationRepository struct{ s *mockStore }

func (m *mockReservationRepository) GetByID(ctx context.Context, id string) (*domain.TripPassenger, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *r
	return &c, nil
}

func (m *mockReservationRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.TripPassenger, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.TripPassenger
	for _, r := range m.s.reservations {
		if r.TripID == tripID {
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockReservationRepository) CountValidByTrip(ctx context.Context, tripID string) (int, error) {
	if m.s.CountValidError != nil {
		return 0, m.s.CountValidError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for _, r := range m.s.reservations {
		if r.TripID == tripID && !r.Status.IsCancelled() {
			n++
		}
	}
	return n, nil
}

func (m *mockReservationRepository) TransitionStatus(ctx context.Context, id string, from, to domain.ReservationStatus, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reservations[id]
	if !ok || r.Status != from {
		return repository.ErrStatusConflict
	}
	r.Status = to
	if to.IsCancelled() {
		r.CancelledAt = at
	}
	return nil
}

func (m *mockReservationRepository) Cancel(ctx context.Context, id string, from, to domain.ReservationStatus, reason domain.CancellationReason, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reservations[id]
	if !ok || r.Status != from {
		return repository.ErrStatusConflict
	}
	r.Status = to
	r.CancelledAt = at
	r.CancellationReason = reason
	return nil
}

func (m *mockReservationRepository) CompleteConfirmedByTrip(ctx context.Context, tripID string) ([]*domain.TripPassenger, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.TripPassenger
	for _, r := range m.s.reservations {
		if r.TripID == tripID && r.Status == domain.ReservationConfirmed {
			r.Status = domain.ReservationCompleted
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockReservationRepository) ListPendingApprovalDepartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.ExpiringReservation, error) {
	return m.expiring(cutoff, func(r *domain.TripPassenger, p *domain.Payment) bool {
		return r.Status == domain.ReservationPendingApproval
	})
}

func (m *mockReservationRepository) ListUnpaidDepartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.ExpiringReservation, error) {
	return m.expiring(cutoff, func(r *domain.TripPassenger, p *domain.Payment) bool {
		approved := r.Status == domain.ReservationApproved || r.Status == domain.ReservationApprovedPendingPayment
		return approved && p != nil && p.Status == domain.PaymentStatusPending
	})
}

func (m *mockReservationRepository) expiring(cutoff time.Time, match func(*domain.TripPassenger, *domain.Payment) bool) ([]*domain.ExpiringReservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.ExpiringReservation
	for _, r := range m.s.reservations {
		t := m.s.trips[r.TripID]
		if t == nil || t.Status.IsTerminal() || !t.DepartureTime.Before(cutoff) {
			continue
		}
		var payment *domain.Payment
		for _, p := range m.s.payments {
			if p.TripPassengerID == r.ID {
				payment = p
			}
		}
		if !match(r, payment) {
			continue
		}
		e := &domain.ExpiringReservation{Reservation: *r, DepartureTime: t.DepartureTime}
		if payment != nil {
			e.PaymentID = payment.ID
			e.PaymentStatus = payment.Status
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reservation.ID < out[j].Reservation.ID })
	return out, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

type mockPaymentRepository struct{ s *mockStore }

func (m *mockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *mockPaymentRepository) GetByReservationID(ctx context.Context, reservationID string) (*domain.Payment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.payments {
		if p.TripPassengerID == reservationID {
			c := *p
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockPaymentRepository) TransitionStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	if m.s.PaymentTransitionErr != nil {
		return m.s.PaymentTransitionErr
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.payments[id]
	if !ok || p.Status != from {
		return repository.ErrStatusConflict
	}
	p.Status = to
	return nil
}

func (m *mockPaymentRepository) SubmitProof(ctx context.Context, id, proofKey string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.payments[id]
	if !ok || p.Status != domain.PaymentStatusPending {
		return repository.ErrStatusConflict
	}
	p.Status = domain.PaymentStatusProcessing
	p.ProofKey = proofKey
	return nil
}

func (m *mockPaymentRepository) SumCompletedByTrip(ctx context.Context, tripID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var total int64
	for _, p := range m.s.payments {
		r := m.s.reservations[p.TripPassengerID]
		if r != nil && r.TripID == tripID && p.Status == domain.PaymentStatusCompleted {
			total += p.TotalAmount
		}
	}
	return total, nil
}

// ──────────────────────────────────────────────
// MOCK PAYOUT REPOSITORY
// ──────────────────────────────────────────────

type mockPayoutRepository struct{ s *mockStore }

func (m *mockPayoutRepository) Create(ctx context.Context, payout *domain.DriverPayout) (bool, error) {
	atomic.AddInt32(&m.s.PayoutCreateCallCount, 1)
	if m.s.PayoutCreateError != nil {
		return false, m.s.PayoutCreateError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.payouts {
		if p.TripID == payout.TripID {
			return false, nil
		}
	}
	c := *payout
	m.s.payouts[payout.ID] = &c
	return true, nil
}

func (m *mockPayoutRepository) GetByID(ctx context.Context, id string) (*domain.DriverPayout, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.payouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *mockPayoutRepository) GetByTripID(ctx context.Context, tripID string) (*domain.DriverPayout, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.payouts {
		if p.TripID == tripID {
			c := *p
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockPayoutRepository) Transition(ctx context.Context, id string, t repository.PayoutTransition) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.payouts[id]
	if !ok || p.Status != t.From {
		return repository.ErrStatusConflict
	}
	p.Status = t.To
	if t.ProcessedBy != "" {
		p.ProcessedBy = t.ProcessedBy
	}
	if t.TransferProofKey != "" {
		p.TransferProofKey = t.TransferProofKey
	}
	if !t.TransferredAt.IsZero() {
		p.TransferredAt = t.TransferredAt
	}
	if t.FailureReason != "" {
		p.FailureReason = t.FailureReason
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

type mockDriverRepository struct{ s *mockStore }

func (m *mockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	d, ok := m.s.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *d
	return &c, nil
}

// ──────────────────────────────────────────────
// MOCK AUDIT, PUBLISHER, REMINDERS, CLOCK
// ──────────────────────────────────────────────

type auditCall struct {
	Origin  string
	Code    string
	Err     error
	Details map[string]any
}

type mockAudit struct {
	mu    sync.Mutex
	calls []auditCall
}

func (m *mockAudit) Record(ctx context.Context, origin, code string, err error, details map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, auditCall{Origin: origin, Code: code, Err: err, Details: details})
}

func (m *mockAudit) Codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		codes = append(codes, c.Code)
	}
	return codes
}

type mockPublisher struct {
	mu     sync.Mutex
	events []Notification

	// Error injection
	PublishError error
	FailFor      map[string]error // by recipient
}

func (m *mockPublisher) Publish(ctx context.Context, v any) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := v.(Notification); ok {
		if err := m.FailFor[n.RecipientID]; err != nil {
			return err
		}
		m.events = append(m.events, n)
	}
	return nil
}

// Sent returns the published notifications of type typ.
func (m *mockPublisher) Sent(typ NotificationType) []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notification
	for _, n := range m.events {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func (m *mockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

type mockReminderStore struct {
	mu        sync.Mutex
	reminders map[string]redis.ReviewReminder

	// Error injection
	ScheduleError error
}

func newMockReminderStore() *mockReminderStore {
	return &mockReminderStore{reminders: make(map[string]redis.ReviewReminder)}
}

func (m *mockReminderStore) ScheduleReviewReminder(ctx context.Context, r redis.ReviewReminder) error {
	if m.ScheduleError != nil {
		return m.ScheduleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[r.TripID+":"+r.PassengerID] = r
	return nil
}

func (m *mockReminderStore) DueReviewReminders(ctx context.Context, now time.Time, limit int64) ([]redis.ReviewReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []redis.ReviewReminder
	for _, r := range m.reminders {
		if !r.DueAt.After(now) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PassengerID < out[j].PassengerID })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockReminderStore) RemoveReviewReminder(ctx context.Context, r redis.ReviewReminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reminders, r.TripID+":"+r.PassengerID)
	return nil
}

func (m *mockReminderStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reminders)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	_ redis.PublisherInterface         = (*mockPublisher)(nil)
	_ redis.ReminderStoreInterface     = (*mockReminderStore)(nil)
	_ AuditRecorder                    = (*mockAudit)(nil)
	_ repository.Transactor            = (*mockTransactor)(nil)
	_ repository.TripRepository        = (*mockTripRepository)(nil)
	_ repository.ReservationRepository = (*mockReservationRepository)(nil)
	_ repository.PaymentRepository     = (*mockPaymentRepository)(nil)
	_ repository.PayoutRepository      = (*mockPayoutRepository)(nil)
	_ repository.DriverRepository      = (*mockDriverRepository)(nil)
)

// ──────────────────────────────────────────────
// TEST ENVIRONMENT
// ──────────────────────────────────────────────

var errBoom = errors.New("boom")

// testNow is 2025-01-15 18:00 UTC.
var testNow = time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *mockStore
	tx        *mockTransactor
	publisher *mockPublisher
	audit     *mockAudit
	reminders *mockReminderStore
	clock     fixedClock
	log       *logrus.Logger
	logHook   *logtest.Hook
	notifier  *NotificationService
	policy    domain.FeePolicy
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMockStore()
	log, hook := logtest.NewNullLogger()
	env := &testEnv{
		store:     store,
		tx:        &mockTransactor{store: store},
		publisher: &mockPublisher{},
		audit:     &mockAudit{},
		reminders: newMockReminderStore(),
		clock:     fixedClock{now: testNow},
		log:       log,
		logHook:   hook,
		policy: domain.FeePolicy{
			FeeRate:          0.10,
			PenaltyPerSeat:   500,
			LateCancelWindow: 24 * time.Hour,
		},
	}
	env.notifier = NewNotificationService(env.publisher, log, env.clock, time.Second)
	return env
}

func (e *testEnv) payoutService() *PayoutService {
	return NewPayoutService(e.store.repos(), e.policy, e.notifier, e.audit, e.clock, e.log)
}

func (e *testEnv) reminderService() *ReviewReminderService {
	return NewReviewReminderService(e.reminders, e.notifier, e.audit, e.clock, e.log)
}

func (e *testEnv) lifecycleManager() *TripLifecycleManager {
	return NewTripLifecycleManager(e.store.repos(), e.tx, e.payoutService(), e.reminderService(),
		e.notifier, e.audit, e.clock, e.log, time.Second)
}

func (e *testEnv) expiryManager() *ReservationExpiryManager {
	return NewReservationExpiryManager(e.store.repos(), e.tx, e.notifier, e.audit, e.clock, e.log)
}

func (e *testEnv) reservationService() *ReservationService {
	return NewReservationService(e.store.repos(), e.tx, e.notifier, e.audit, e.clock, e.log)
}

func (e *testEnv) paymentService() *PaymentService {
	return NewPaymentService(e.store.repos(), e.tx, e.notifier, e.audit, e.clock, e.log)
}

func (e *testEnv) tripService() *TripService {
	return NewTripService(e.store.repos(), e.tx, e.notifier, e.audit, e.clock, e.log)
}

// Fixture IDs. Actor-facing IDs are UUIDs so request validation passes.
const (
	driverID     = "7b0f2a8e-1c3d-4e5f-8a9b-0c1d2e3f4a5b"
	passengerID  = "2c9d8e7f-6a5b-4c3d-9e2f-1a0b9c8d7e6f"
	passenger2ID = "3d0e9f8a-7b6c-4d5e-8f3a-2b1c0d9e8f7a"
	adminID      = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
	tripID       = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
	trip2ID      = "b2c3d4e5-f6a7-4b8c-9d0e-1f2a3b4c5d6e"
	reservation1 = "c3d4e5f6-a7b8-4c9d-8e1f-2a3b4c5d6e7f"
	reservation2 = "d4e5f6a7-b8c9-4d0e-9f2a-3b4c5d6e7f8a"
	payment1     = "e5f6a7b8-c9d0-4e1f-8a3b-4c5d6e7f8a9b"
	payment2     = "f6a7b8c9-d0e1-4f2a-9b4c-5d6e7f8a9b0c"
	payoutID     = "0a1b2c3d-4e5f-4a6b-8c7d-8e9f0a1b2c3d"
)

func newTrip(id string, departure time.Time, durationSeconds int64) *domain.Trip {
	return &domain.Trip{
		ID:              id,
		DriverID:        driverID,
		Status:          domain.TripStatusPending,
		DepartureTime:   departure,
		DurationSeconds: durationSeconds,
		AvailableSeats:  4,
		RemainingSeats:  4,
	}
}

func newReservation(id, trip, passenger string, status domain.ReservationStatus, seats int) *domain.TripPassenger {
	return &domain.TripPassenger{
		ID:            id,
		TripID:        trip,
		PassengerID:   passenger,
		Status:        status,
		SeatsReserved: seats,
	}
}

func newPayment(id, reservationID string, status domain.PaymentStatus, amount int64) *domain.Payment {
	return &domain.Payment{
		ID:              id,
		TripPassengerID: reservationID,
		Status:          status,
		TotalAmount:     amount,
	}
}
