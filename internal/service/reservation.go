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

const reservationOrigin = "reservation"

// ReservationService applies driver and passenger actions to reservations.
type ReservationService struct {
	repos    repository.Repos
	tx       repository.Transactor
	notifier *NotificationService
	audit    AuditRecorder
	clock    Clock
	log      logrus.FieldLogger
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	repos repository.Repos,
	tx repository.Transactor,
	notifier *NotificationService,
	audit AuditRecorder,
	clock Clock,
	log logrus.FieldLogger,
) *ReservationService {
	return &ReservationService{
		repos:    repos,
		tx:       tx,
		notifier: notifier,
		audit:    audit,
		clock:    clock,
		log:      log,
	}
}

// ReservationActionRequest identifies a reservation and the user acting on it.
type ReservationActionRequest struct {
	ReservationID string `validate:"required,uuid"`
	ActorID       string `validate:"required,uuid"`
}

// Approve accepts a pending request. The passenger then has to pay.
func (s *ReservationService) Approve(ctx context.Context, req ReservationActionRequest) (*domain.TripPassenger, error) {
	r, trip, err := s.loadForDriver(ctx, req)
	if err != nil {
		return nil, err
	}
	if trip.Status.IsTerminal() {
		return nil, ErrTripNotOpen
	}

	return s.move(ctx, r, domain.ReservationApprovedPendingPayment, func(tx repository.Repos) error {
		return tx.Reservations.TransitionStatus(ctx, r.ID, r.Status, domain.ReservationApprovedPendingPayment, s.clock.Now())
	}, "The driver approved your request. Complete the payment to hold your seat.")
}

// Reject declines a pending request and cancels its payment.
func (s *ReservationService) Reject(ctx context.Context, req ReservationActionRequest) (*domain.TripPassenger, error) {
	r, _, err := s.loadForDriver(ctx, req)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.ReservationPendingApproval {
		return nil, fmt.Errorf("%w: reservation %s to %s", ErrInvalidTransition, r.Status, domain.ReservationCancelledByDriver)
	}

	return s.cancel(ctx, r, domain.ReservationCancelledByDriver, domain.CancellationDriverDeclined, "The driver declined your request.")
}

// ClaimSeat holds seats for an approved reservation.
func (s *ReservationService) ClaimSeat(ctx context.Context, req ReservationActionRequest) (*domain.TripPassenger, error) {
	r, trip, err := s.loadForPassenger(ctx, req)
	if err != nil {
		return nil, err
	}
	if trip.Status.IsTerminal() {
		return nil, ErrTripNotOpen
	}

	return s.move(ctx, r, domain.ReservationApproved, func(tx repository.Repos) error {
		if err := tx.Reservations.TransitionStatus(ctx, r.ID, r.Status, domain.ReservationApproved, s.clock.Now()); err != nil {
			return err
		}
		if err := tx.Trips.ReserveSeats(ctx, r.TripID, r.SeatsReserved); err != nil {
			if errors.Is(err, repository.ErrInsufficientSeats) {
				return ErrNoSeatsAvailable
			}
			return err
		}
		return nil
	}, "")
}

// Cancel withdraws a passenger's reservation.
func (s *ReservationService) Cancel(ctx context.Context, req ReservationActionRequest) (*domain.TripPassenger, error) {
	r, _, err := s.loadForPassenger(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, r, domain.ReservationCancelledByPassenger, domain.CancellationPassengerRequest, "Your reservation was cancelled.")
}

// cancel moves r to a cancelled status, cancels a pending payment and
// returns held seats in one transaction.
func (s *ReservationService) cancel(
	ctx context.Context,
	r *domain.TripPassenger,
	to domain.ReservationStatus,
	reason domain.CancellationReason,
	message string,
) (*domain.TripPassenger, error) {
	now := s.clock.Now()

	payment, err := s.repos.Payments.GetByReservationID(ctx, r.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	updated, err := s.move(ctx, r, to, func(tx repository.Repos) error {
		return cancelReservation(ctx, tx, r, payment, to, reason, now)
	}, message)
	if err != nil {
		return nil, err
	}
	updated.CancellationReason = reason
	return updated, nil
}

func (s *ReservationService) move(
	ctx context.Context,
	r *domain.TripPassenger,
	to domain.ReservationStatus,
	fn func(repository.Repos) error,
	message string,
) (*domain.TripPassenger, error) {
	if !r.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: reservation %s to %s", ErrInvalidTransition, r.Status, to)
	}

	if err := s.tx.WithinTx(ctx, fn); err != nil {
		return nil, err
	}

	from := r.Status
	updated := *r
	updated.Status = to
	if to.IsCancelled() {
		updated.CancelledAt = s.clock.Now()
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"from":           from,
		"to":             to,
	}).Info("reservation status changed")

	if message != "" {
		if err := s.notifier.NotifyReservationStatus(ctx, &updated, message); err != nil {
			s.audit.Record(ctx, reservationOrigin, AuditNotificationFailed, err, map[string]any{"reservation_id": r.ID})
		}
	}

	return &updated, nil
}

func (s *ReservationService) loadForDriver(ctx context.Context, req ReservationActionRequest) (*domain.TripPassenger, *domain.Trip, error) {
	r, trip, err := s.load(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if trip.DriverID != req.ActorID {
		return nil, nil, ErrNotTripDriver
	}
	return r, trip, nil
}

func (s *ReservationService) loadForPassenger(ctx context.Context, req ReservationActionRequest) (*domain.TripPassenger, *domain.Trip, error) {
	r, trip, err := s.load(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if r.PassengerID != req.ActorID {
		return nil, nil, ErrNotReservationOwner
	}
	return r, trip, nil
}

func (s *ReservationService) load(ctx context.Context, req ReservationActionRequest) (*domain.TripPassenger, *domain.Trip, error) {
	if err := validateRequest(req); err != nil {
		return nil, nil, err
	}

	r, err := s.repos.Reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, nil, err
	}

	trip, err := s.repos.Trips.GetByID(ctx, r.TripID)
	if err != nil {
		return nil, nil, err
	}
	return r, trip, nil
}

// cancelReservation is the shared cancellation write: reservation status,
// pending payment and held seats. payment may be nil.
func cancelReservation(
	ctx context.Context,
	tx repository.Repos,
	r *domain.TripPassenger,
	payment *domain.Payment,
	to domain.ReservationStatus,
	reason domain.CancellationReason,
	now time.Time,
) error {
	if err := tx.Reservations.Cancel(ctx, r.ID, r.Status, to, reason, now); err != nil {
		return err
	}

	if payment != nil && payment.Status == domain.PaymentStatusPending {
		if err := tx.Payments.TransitionStatus(ctx, payment.ID, domain.PaymentStatusPending, domain.PaymentStatusCancelled); err != nil {
			return err
		}
	}

	if r.Status.HoldsSeats() {
		if err := tx.Trips.ReleaseSeats(ctx, r.TripID, r.SeatsReserved); err != nil {
			return fmt.Errorf("release seats: %w", err)
		}
	}
	return nil
}
