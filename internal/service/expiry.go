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

const expiryOrigin = "reservation-expiry"

// ReservationExpiryManager cancels reservations that ran out of time before
// departure.
type ReservationExpiryManager struct {
	repos    repository.Repos
	tx       repository.Transactor
	notifier *NotificationService
	audit    AuditRecorder
	clock    Clock
	log      logrus.FieldLogger
}

// NewReservationExpiryManager creates a new ReservationExpiryManager.
func NewReservationExpiryManager(
	repos repository.Repos,
	tx repository.Transactor,
	notifier *NotificationService,
	audit AuditRecorder,
	clock Clock,
	log logrus.FieldLogger,
) *ReservationExpiryManager {
	return &ReservationExpiryManager{
		repos:    repos,
		tx:       tx,
		notifier: notifier,
		audit:    audit,
		clock:    clock,
		log:      log,
	}
}

// RejectExpiredPendingReservations cancels, on the driver's behalf, requests
// still awaiting approval when their trip departs within MinBookingLead.
func (m *ReservationExpiryManager) RejectExpiredPendingReservations(ctx context.Context) (*ExpiryResult, error) {
	now := m.clock.Now()

	candidates, err := m.repos.Reservations.ListPendingApprovalDepartingBefore(ctx, now.Add(domain.MinBookingLead))
	if err != nil {
		return nil, fmt.Errorf("list pending reservations: %w", err)
	}

	return m.sweep(ctx, candidates, domain.ReservationCancelledByDriver, domain.CancellationApprovalExpired, now,
		"The driver did not respond to your request in time."), nil
}

// ExpireUnpaidReservations cancels approved reservations whose payment is
// still pending when their trip departs within PaymentDeadlineLead.
func (m *ReservationExpiryManager) ExpireUnpaidReservations(ctx context.Context) (*ExpiryResult, error) {
	now := m.clock.Now()

	candidates, err := m.repos.Reservations.ListUnpaidDepartingBefore(ctx, now.Add(domain.PaymentDeadlineLead))
	if err != nil {
		return nil, fmt.Errorf("list unpaid reservations: %w", err)
	}

	return m.sweep(ctx, candidates, domain.ReservationCancelledByPassenger, domain.CancellationPaymentExpired, now,
		"Your reservation was cancelled because payment was not received in time."), nil
}

func (m *ReservationExpiryManager) sweep(
	ctx context.Context,
	candidates []*domain.ExpiringReservation,
	to domain.ReservationStatus,
	reason domain.CancellationReason,
	now time.Time,
	message string,
) *ExpiryResult {
	result := &ExpiryResult{}

	for _, c := range candidates {
		result.ProcessedReservations++
		log := m.log.WithFields(logrus.Fields{
			"reservation_id": c.Reservation.ID,
			"trip_id":        c.Reservation.TripID,
		})

		err := m.expire(ctx, c, to, reason, now)
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			result.ConflictCount++
			log.Info("reservation changed status concurrently, leaving it")
			continue
		case err != nil:
			result.FailureCount++
			m.audit.Record(ctx, expiryOrigin, AuditReservationExpiry, err, map[string]any{
				"reservation_id": c.Reservation.ID,
				"target_status":  to,
			})
			continue
		}

		result.ExpiredCount++
		log.WithField("status", to).Info("reservation expired")

		expired := c.Reservation
		expired.Status = to
		expired.CancelledAt = now
		expired.CancellationReason = reason
		if err := m.notifier.NotifyReservationExpired(ctx, &expired, message); err != nil {
			m.audit.Record(ctx, expiryOrigin, AuditNotificationFailed, err, map[string]any{
				"reservation_id": c.Reservation.ID,
			})
		}
	}

	return result
}

// expire cancels one reservation together with its pending payment and
// returns any seats it held. A payment that moved on concurrently rolls the
// whole change back.
func (m *ReservationExpiryManager) expire(
	ctx context.Context,
	c *domain.ExpiringReservation,
	to domain.ReservationStatus,
	reason domain.CancellationReason,
	now time.Time,
) error {
	from := c.Reservation.Status
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	return m.tx.WithinTx(ctx, func(r repository.Repos) error {
		if err := r.Reservations.Cancel(ctx, c.Reservation.ID, from, to, reason, now); err != nil {
			return err
		}

		if c.PaymentID != "" && c.PaymentStatus == domain.PaymentStatusPending {
			if err := r.Payments.TransitionStatus(ctx, c.PaymentID, domain.PaymentStatusPending, domain.PaymentStatusCancelled); err != nil {
				return err
			}
		}

		if from.HoldsSeats() {
			if err := r.Trips.ReleaseSeats(ctx, c.Reservation.TripID, c.Reservation.SeatsReserved); err != nil {
				return fmt.Errorf("release seats: %w", err)
			}
		}
		return nil
	})
}
