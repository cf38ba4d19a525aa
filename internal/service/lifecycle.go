package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

const lifecycleOrigin = "trip-lifecycle"

// PayoutCreator creates the driver payout of a completed trip.
type PayoutCreator interface {
	CreatePayoutForTrip(ctx context.Context, tripID string) (*domain.DriverPayout, error)
}

// ReviewScheduler schedules review reminders for completed passengers.
type ReviewScheduler interface {
	ScheduleForTrip(ctx context.Context, trip *domain.Trip, passengers []*domain.TripPassenger) error
}

// TripLifecycleManager closes out trips whose expected end has passed.
type TripLifecycleManager struct {
	repos           repository.Repos
	tx              repository.Transactor
	payouts         PayoutCreator
	reminders       ReviewScheduler
	notifier        *NotificationService
	audit           AuditRecorder
	clock           Clock
	log             logrus.FieldLogger
	followUpTimeout time.Duration
}

// NewTripLifecycleManager creates a new TripLifecycleManager.
func NewTripLifecycleManager(
	repos repository.Repos,
	tx repository.Transactor,
	payouts PayoutCreator,
	reminders ReviewScheduler,
	notifier *NotificationService,
	audit AuditRecorder,
	clock Clock,
	log logrus.FieldLogger,
	followUpTimeout time.Duration,
) *TripLifecycleManager {
	return &TripLifecycleManager{
		repos:           repos,
		tx:              tx,
		payouts:         payouts,
		reminders:       reminders,
		notifier:        notifier,
		audit:           audit,
		clock:           clock,
		log:             log,
		followUpTimeout: followUpTimeout,
	}
}

// CompleteExpiredTrips moves every open trip whose completion time has
// passed to COMPLETED, or to CANCELLED when it has no valid passengers.
// Per-trip failures are counted and audited; only a failure to list trips
// is returned.
func (m *TripLifecycleManager) CompleteExpiredTrips(ctx context.Context) (*TripCompletionResult, error) {
	trips, err := m.repos.Trips.ListByStatuses(ctx, []domain.TripStatus{
		domain.TripStatusPending,
		domain.TripStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("list open trips: %w", err)
	}

	now := m.clock.Now()
	result := &TripCompletionResult{}

	for _, trip := range trips {
		result.ProcessedTrips++
		log := m.log.WithField("trip_id", trip.ID)

		if !trip.HasDuration() {
			result.SkippedTrips++
			log.Warn("trip has no duration estimate, skipping auto-completion")
			continue
		}

		if now.Before(trip.CompletionTime()) {
			result.NotDueTrips++
			continue
		}

		status, passengers, unsettled, err := m.closeTrip(ctx, trip, now)
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			result.ConflictTrips++
			log.Info("trip changed status concurrently, leaving it")
			continue
		case err != nil:
			result.FailureCount++
			m.audit.Record(ctx, lifecycleOrigin, AuditTripCompletionFailed, err, map[string]any{"trip_id": trip.ID})
			continue
		}

		result.SuccessCount++
		if status == domain.TripStatusCompleted {
			result.CompletedTrips++
			result.UnsettledCancelled += unsettled
			result.FollowUpFailures += m.afterCompletion(ctx, trip, passengers)
		} else {
			result.CancelledTrips++
			m.afterCancellation(ctx, trip)
		}

		log.WithFields(logrus.Fields{
			"status":              status,
			"unsettled_cancelled": unsettled,
		}).Info("trip closed")
	}

	return result, nil
}

// closeTrip applies the status change for one trip in a transaction and
// returns the new status, the reservations it completed and the number of
// unsettled reservations it cancelled.
func (m *TripLifecycleManager) closeTrip(ctx context.Context, trip *domain.Trip, now time.Time) (domain.TripStatus, []*domain.TripPassenger, int, error) {
	var (
		next      domain.TripStatus
		completed []*domain.TripPassenger
		unsettled int
	)

	err := m.tx.WithinTx(ctx, func(r repository.Repos) error {
		valid, err := r.Reservations.CountValidByTrip(ctx, trip.ID)
		if err != nil {
			return fmt.Errorf("count valid reservations: %w", err)
		}

		next = domain.TripStatusCompleted
		if valid == 0 {
			next = domain.TripStatusCancelled
		}

		if err := r.Trips.TransitionStatus(ctx, trip.ID, trip.Status, next); err != nil {
			return err
		}

		if next == domain.TripStatusCompleted {
			completed, err = r.Reservations.CompleteConfirmedByTrip(ctx, trip.ID)
			if err != nil {
				return fmt.Errorf("complete confirmed reservations: %w", err)
			}

			unsettled, err = cancelUnsettled(ctx, r, trip.ID, now)
			if err != nil {
				return fmt.Errorf("cancel unsettled reservations: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", nil, 0, err
	}

	trip.Status = next
	return next, completed, unsettled, nil
}

// cancelUnsettled cancels the reservations of a completing trip that were
// never confirmed, so none stays open on a closed trip. Requests the driver
// never answered count as approval expiry, approved but unpaid ones as
// payment expiry. Neither is a passenger cancellation.
func cancelUnsettled(ctx context.Context, r repository.Repos, tripID string, now time.Time) (int, error) {
	reservations, err := r.Reservations.ListByTrip(ctx, tripID)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, res := range reservations {
		if !res.Status.IsUnsettled() {
			continue
		}

		to, reason := domain.ReservationCancelledByPassenger, domain.CancellationPaymentExpired
		if res.Status == domain.ReservationPendingApproval {
			to, reason = domain.ReservationCancelledByDriver, domain.CancellationApprovalExpired
		}

		payment, err := r.Payments.GetByReservationID(ctx, res.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return cancelled, fmt.Errorf("get payment for %s: %w", res.ID, err)
		}

		if err := cancelReservation(ctx, r, res, payment, to, reason, now); err != nil {
			return cancelled, fmt.Errorf("cancel reservation %s: %w", res.ID, err)
		}
		cancelled++
	}
	return cancelled, nil
}

// afterCompletion runs the side effects of a completed trip. Each step is
// bounded and isolated; failures are audited and counted but never undo the
// transition. Returns the number of failed steps.
func (m *TripLifecycleManager) afterCompletion(ctx context.Context, trip *domain.Trip, passengers []*domain.TripPassenger) int {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"create_payout", func(ctx context.Context) error {
			_, err := m.payouts.CreatePayoutForTrip(ctx, trip.ID)
			return err
		}},
		{"schedule_reviews", func(ctx context.Context) error {
			return m.reminders.ScheduleForTrip(ctx, trip, passengers)
		}},
		{"notify", func(ctx context.Context) error {
			return m.notifier.NotifyTripCompleted(ctx, trip, passengers)
		}},
	}

	failures := 0
	for _, step := range steps {
		if err := m.runFollowUp(ctx, step.run); err != nil {
			failures++
			m.audit.Record(ctx, lifecycleOrigin, AuditFollowUpFailed, err, map[string]any{
				"trip_id": trip.ID,
				"step":    step.name,
			})
		}
	}
	return failures
}

func (m *TripLifecycleManager) afterCancellation(ctx context.Context, trip *domain.Trip) {
	err := m.runFollowUp(ctx, func(ctx context.Context) error {
		return m.notifier.NotifyTripCancelled(ctx, trip, "Your trip was cancelled because it had no passengers.")
	})
	if err != nil {
		m.audit.Record(ctx, lifecycleOrigin, AuditNotificationFailed, err, map[string]any{"trip_id": trip.ID})
	}
}

func (m *TripLifecycleManager) runFollowUp(ctx context.Context, fn func(context.Context) error) error {
	if m.followUpTimeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, m.followUpTimeout)
	defer cancel()
	return fn(ctx)
}
