package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

const (
	payoutOrigin      = "driver-payout"
	backfillBatchSize = 100
)

// PayoutService calculates driver payouts and drives them through the
// admin transfer workflow.
type PayoutService struct {
	repos    repository.Repos
	policy   domain.FeePolicy
	notifier *NotificationService
	audit    AuditRecorder
	clock    Clock
	log      logrus.FieldLogger
}

// NewPayoutService creates a new PayoutService.
func NewPayoutService(
	repos repository.Repos,
	policy domain.FeePolicy,
	notifier *NotificationService,
	audit AuditRecorder,
	clock Clock,
	log logrus.FieldLogger,
) *PayoutService {
	return &PayoutService{
		repos:    repos,
		policy:   policy,
		notifier: notifier,
		audit:    audit,
		clock:    clock,
		log:      log,
	}
}

func validateTripID(id string) error {
	if id == "" {
		return ErrInvalidTripID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidTripID)
	}
	return nil
}

// CalculatePayout computes what the driver of a trip is owed.
func (s *PayoutService) CalculatePayout(ctx context.Context, tripID string) (*domain.PayoutBreakdown, error) {
	if err := validateTripID(tripID); err != nil {
		return nil, err
	}

	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return s.calculate(ctx, trip)
}

func (s *PayoutService) calculate(ctx context.Context, trip *domain.Trip) (*domain.PayoutBreakdown, error) {
	total, err := s.repos.Payments.SumCompletedByTrip(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("sum completed payments: %w", err)
	}

	reservations, err := s.repos.Reservations.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	lateSeats := 0
	for _, r := range reservations {
		if r.IsPassengerCancellation() && s.policy.IsLateCancellation(r.CancelledAt, trip.DepartureTime) {
			lateSeats += r.SeatsReserved
		}
	}

	b := domain.NewPayoutBreakdown(total, s.policy.ServiceFee(total), int64(lateSeats)*s.policy.PenaltyPerSeat)
	return &b, nil
}

// CreatePayoutForTrip creates the payout of a completed trip. Calling it
// again for the same trip returns the existing payout.
func (s *PayoutService) CreatePayoutForTrip(ctx context.Context, tripID string) (*domain.DriverPayout, error) {
	if err := validateTripID(tripID); err != nil {
		return nil, err
	}

	existing, err := s.repos.Payouts.GetByTripID(ctx, tripID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != domain.TripStatusCompleted {
		return nil, ErrTripNotCompleted
	}

	b, err := s.calculate(ctx, trip)
	if err != nil {
		return nil, err
	}

	driver, err := s.repos.Drivers.GetByID(ctx, trip.DriverID)
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}

	status := domain.PayoutStatusPending
	if !driver.BankAccountVerified || b.PayoutAmount == 0 {
		status = domain.PayoutStatusOnHold
	}

	now := s.clock.Now()
	payout := &domain.DriverPayout{
		ID:                      uuid.New().String(),
		TripID:                  trip.ID,
		DriverID:                trip.DriverID,
		Status:                  status,
		TotalReceived:           b.TotalReceived,
		ServiceFee:              b.ServiceFee,
		LateCancellationPenalty: b.LateCancellationPenalty,
		PayoutAmount:            b.PayoutAmount,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	created, err := s.repos.Payouts.Create(ctx, payout)
	if err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}
	if !created {
		// Another run created it first.
		return s.repos.Payouts.GetByTripID(ctx, tripID)
	}

	s.log.WithFields(logrus.Fields{
		"trip_id":       trip.ID,
		"payout_id":     payout.ID,
		"status":        payout.Status,
		"payout_amount": payout.PayoutAmount,
	}).Info("driver payout created")

	return payout, nil
}

// BackfillMissingPayouts creates payouts for completed trips that lack one.
func (s *PayoutService) BackfillMissingPayouts(ctx context.Context) (*BackfillResult, error) {
	trips, err := s.repos.Trips.ListCompletedWithoutPayout(ctx, backfillBatchSize)
	if err != nil {
		return nil, fmt.Errorf("list trips without payout: %w", err)
	}

	result := &BackfillResult{}
	for _, trip := range trips {
		result.ProcessedTrips++
		if _, err := s.CreatePayoutForTrip(ctx, trip.ID); err != nil {
			result.FailureCount++
			s.audit.Record(ctx, payoutOrigin, AuditPayoutCreationFailed, err, map[string]any{"trip_id": trip.ID})
			continue
		}
		result.CreatedCount++
	}
	return result, nil
}

// PayoutActionRequest identifies a payout and the admin acting on it.
type PayoutActionRequest struct {
	PayoutID string `validate:"required,uuid"`
	ActorID  string `validate:"required,uuid"`
}

// MarkCompletedRequest records a finished bank transfer.
type MarkCompletedRequest struct {
	PayoutID         string    `validate:"required,uuid"`
	ActorID          string    `validate:"required,uuid"`
	TransferProofKey string    `validate:"required"`
	TransferredAt    time.Time `validate:"required"`
}

// MarkFailedRequest records a failed bank transfer.
type MarkFailedRequest struct {
	PayoutID string `validate:"required,uuid"`
	ActorID  string `validate:"required,uuid"`
	Reason   string `validate:"required,max=500"`
}

// MarkProcessing starts a transfer for a pending or previously failed payout.
func (s *PayoutService) MarkProcessing(ctx context.Context, req PayoutActionRequest) (*domain.DriverPayout, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, req.PayoutID, repository.PayoutTransition{
		To:          domain.PayoutStatusProcessing,
		ProcessedBy: req.ActorID,
	})
}

// MarkCompleted finishes a transfer with its proof.
func (s *PayoutService) MarkCompleted(ctx context.Context, req MarkCompletedRequest) (*domain.DriverPayout, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, req.PayoutID, repository.PayoutTransition{
		To:               domain.PayoutStatusCompleted,
		ProcessedBy:      req.ActorID,
		TransferProofKey: req.TransferProofKey,
		TransferredAt:    req.TransferredAt,
	})
}

// MarkFailed records why a transfer failed.
func (s *PayoutService) MarkFailed(ctx context.Context, req MarkFailedRequest) (*domain.DriverPayout, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, req.PayoutID, repository.PayoutTransition{
		To:            domain.PayoutStatusFailed,
		ProcessedBy:   req.ActorID,
		FailureReason: req.Reason,
	})
}

// Hold parks a pending payout.
func (s *PayoutService) Hold(ctx context.Context, req PayoutActionRequest) (*domain.DriverPayout, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, req.PayoutID, repository.PayoutTransition{
		To:          domain.PayoutStatusOnHold,
		ProcessedBy: req.ActorID,
	})
}

// Release returns a held payout to PENDING once the driver can be paid.
func (s *PayoutService) Release(ctx context.Context, req PayoutActionRequest) (*domain.DriverPayout, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	payout, err := s.repos.Payouts.GetByID(ctx, req.PayoutID)
	if err != nil {
		return nil, err
	}

	driver, err := s.repos.Drivers.GetByID(ctx, payout.DriverID)
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}
	if !driver.BankAccountVerified || payout.PayoutAmount == 0 {
		return nil, ErrPayoutNotReleasable
	}

	return s.apply(ctx, payout, repository.PayoutTransition{
		To:          domain.PayoutStatusPending,
		ProcessedBy: req.ActorID,
	})
}

// Cancel abandons a payout that has not started transferring.
func (s *PayoutService) Cancel(ctx context.Context, req PayoutActionRequest) (*domain.DriverPayout, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, req.PayoutID, repository.PayoutTransition{
		To:          domain.PayoutStatusCancelled,
		ProcessedBy: req.ActorID,
	})
}

func (s *PayoutService) transition(ctx context.Context, id string, t repository.PayoutTransition) (*domain.DriverPayout, error) {
	payout, err := s.repos.Payouts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, payout, t)
}

func (s *PayoutService) apply(ctx context.Context, payout *domain.DriverPayout, t repository.PayoutTransition) (*domain.DriverPayout, error) {
	if !payout.Status.CanTransition(t.To) {
		return nil, fmt.Errorf("%w: payout %s to %s", ErrInvalidTransition, payout.Status, t.To)
	}
	t.From = payout.Status

	if err := s.repos.Payouts.Transition(ctx, payout.ID, t); err != nil {
		return nil, err
	}

	updated, err := s.repos.Payouts.GetByID(ctx, payout.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payout_id": updated.ID,
		"from":      t.From,
		"to":        updated.Status,
		"actor_id":  t.ProcessedBy,
	}).Info("payout status changed")

	if err := s.notifier.NotifyPayoutFinalized(ctx, updated); err != nil {
		s.audit.Record(ctx, payoutOrigin, AuditNotificationFailed, err, map[string]any{"payout_id": updated.ID})
	}

	return updated, nil
}
