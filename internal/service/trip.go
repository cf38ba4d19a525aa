package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

const tripOrigin = "trip"

// TripService handles driver and admin actions on trips.
type TripService struct {
	repos    repository.Repos
	tx       repository.Transactor
	notifier *NotificationService
	audit    AuditRecorder
	clock    Clock
	log      logrus.FieldLogger
}

// NewTripService creates a new TripService.
func NewTripService(
	repos repository.Repos,
	tx repository.Transactor,
	notifier *NotificationService,
	audit AuditRecorder,
	clock Clock,
	log logrus.FieldLogger,
) *TripService {
	return &TripService{
		repos:    repos,
		tx:       tx,
		notifier: notifier,
		audit:    audit,
		clock:    clock,
		log:      log,
	}
}

// CancelTripRequest contains the parameters for cancelling a trip.
type CancelTripRequest struct {
	TripID  string `validate:"required,uuid"`
	ActorID string `validate:"required,uuid"`
	AsAdmin bool
}

// CancelTrip cancels an open trip and every live reservation on it.
func (s *TripService) CancelTrip(ctx context.Context, req CancelTripRequest) (*domain.Trip, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	trip, err := s.repos.Trips.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if !req.AsAdmin && trip.DriverID != req.ActorID {
		return nil, ErrNotTripDriver
	}
	if !trip.Status.CanTransition(domain.TripStatusCancelled) {
		return nil, ErrTripNotOpen
	}

	reservations, err := s.repos.Reservations.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	var live []*domain.TripPassenger
	payments := make(map[string]*domain.Payment)
	for _, r := range reservations {
		if r.Status.IsTerminal() {
			continue
		}
		live = append(live, r)

		payment, err := s.repos.Payments.GetByReservationID(ctx, r.ID)
		switch {
		case err == nil:
			payments[r.ID] = payment
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("get payment: %w", err)
		}
	}

	now := s.clock.Now()
	err = s.tx.WithinTx(ctx, func(tx repository.Repos) error {
		if err := tx.Trips.TransitionStatus(ctx, trip.ID, trip.Status, domain.TripStatusCancelled); err != nil {
			return err
		}
		for _, r := range live {
			if err := cancelReservation(ctx, tx, r, payments[r.ID], domain.ReservationCancelledByDriver, domain.CancellationTripCancelled, now); err != nil {
				return fmt.Errorf("cancel reservation %s: %w", r.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	trip.Status = domain.TripStatusCancelled

	s.log.WithFields(logrus.Fields{
		"trip_id":      trip.ID,
		"actor_id":     req.ActorID,
		"reservations": len(live),
	}).Info("trip cancelled")

	for _, r := range live {
		cancelled := *r
		cancelled.Status = domain.ReservationCancelledByDriver
		cancelled.CancelledAt = now
		if err := s.notifier.NotifyReservationStatus(ctx, &cancelled, "The driver cancelled this trip."); err != nil {
			s.audit.Record(ctx, tripOrigin, AuditNotificationFailed, err, map[string]any{"reservation_id": r.ID})
		}
	}

	return trip, nil
}
