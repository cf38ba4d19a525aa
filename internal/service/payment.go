package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

const paymentOrigin = "payment"

// PaymentService handles manual payment proofs and their admin review.
type PaymentService struct {
	repos    repository.Repos
	tx       repository.Transactor
	notifier *NotificationService
	audit    AuditRecorder
	clock    Clock
	log      logrus.FieldLogger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	repos repository.Repos,
	tx repository.Transactor,
	notifier *NotificationService,
	audit AuditRecorder,
	clock Clock,
	log logrus.FieldLogger,
) *PaymentService {
	return &PaymentService{
		repos:    repos,
		tx:       tx,
		notifier: notifier,
		audit:    audit,
		clock:    clock,
		log:      log,
	}
}

// SubmitProofRequest contains the parameters for attaching a payment proof.
type SubmitProofRequest struct {
	PaymentID   string `validate:"required,uuid"`
	PassengerID string `validate:"required,uuid"`
	ProofKey    string `validate:"required,max=512"`
}

// PaymentReviewRequest identifies a payment and the admin reviewing it.
type PaymentReviewRequest struct {
	PaymentID string `validate:"required,uuid"`
	ActorID   string `validate:"required,uuid"`
}

// SubmitProof attaches the passenger's transfer proof and queues the
// payment for review.
func (s *PaymentService) SubmitProof(ctx context.Context, req SubmitProofRequest) (*domain.Payment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	payment, err := s.repos.Payments.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	r, err := s.repos.Reservations.GetByID(ctx, payment.TripPassengerID)
	if err != nil {
		return nil, err
	}
	if r.PassengerID != req.PassengerID {
		return nil, ErrNotReservationOwner
	}
	if !payment.Status.CanTransition(domain.PaymentStatusProcessing) {
		return nil, fmt.Errorf("%w: payment %s to %s", ErrInvalidTransition, payment.Status, domain.PaymentStatusProcessing)
	}

	if err := s.repos.Payments.SubmitProof(ctx, payment.ID, req.ProofKey); err != nil {
		return nil, err
	}

	payment.Status = domain.PaymentStatusProcessing
	payment.ProofKey = req.ProofKey
	payment.UpdatedAt = s.clock.Now()

	s.log.WithField("payment_id", payment.ID).Info("payment proof submitted")
	return payment, nil
}

// Verify completes a payment and confirms its reservation in one
// transaction. The reservation must already hold its seats.
func (s *PaymentService) Verify(ctx context.Context, req PaymentReviewRequest) (*domain.Payment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	payment, r, err := s.load(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransition(domain.PaymentStatusCompleted) {
		return nil, fmt.Errorf("%w: payment %s to %s", ErrInvalidTransition, payment.Status, domain.PaymentStatusCompleted)
	}
	if r.Status != domain.ReservationApproved {
		return nil, fmt.Errorf("%w: reservation %s to %s", ErrInvalidTransition, r.Status, domain.ReservationConfirmed)
	}

	err = s.tx.WithinTx(ctx, func(tx repository.Repos) error {
		if err := tx.Payments.TransitionStatus(ctx, payment.ID, payment.Status, domain.PaymentStatusCompleted); err != nil {
			return err
		}
		return tx.Reservations.TransitionStatus(ctx, r.ID, r.Status, domain.ReservationConfirmed, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	payment.Status = domain.PaymentStatusCompleted
	payment.UpdatedAt = s.clock.Now()

	s.log.WithFields(logrus.Fields{
		"payment_id":     payment.ID,
		"reservation_id": r.ID,
		"actor_id":       req.ActorID,
	}).Info("payment verified")

	s.notify(ctx, payment, r)
	return payment, nil
}

// Reject fails a payment under review. The reservation is cancelled and its
// seats returned, since a failed payment cannot be retried.
func (s *PaymentService) Reject(ctx context.Context, req PaymentReviewRequest) (*domain.Payment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	payment, r, err := s.load(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentStatusProcessing {
		return nil, fmt.Errorf("%w: payment %s to %s", ErrInvalidTransition, payment.Status, domain.PaymentStatusFailed)
	}

	now := s.clock.Now()
	cancelled := r.Status.CanTransition(domain.ReservationCancelledByPassenger)

	err = s.tx.WithinTx(ctx, func(tx repository.Repos) error {
		if err := tx.Payments.TransitionStatus(ctx, payment.ID, payment.Status, domain.PaymentStatusFailed); err != nil {
			return err
		}
		if !cancelled {
			return nil
		}
		return cancelReservation(ctx, tx, r, nil, domain.ReservationCancelledByPassenger, domain.CancellationPaymentRejected, now)
	})
	if err != nil {
		return nil, err
	}

	payment.Status = domain.PaymentStatusFailed
	payment.UpdatedAt = now

	s.log.WithFields(logrus.Fields{
		"payment_id":     payment.ID,
		"reservation_id": r.ID,
		"actor_id":       req.ActorID,
	}).Info("payment rejected")

	s.notify(ctx, payment, r)
	return payment, nil
}

func (s *PaymentService) load(ctx context.Context, paymentID string) (*domain.Payment, *domain.TripPassenger, error) {
	payment, err := s.repos.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}

	r, err := s.repos.Reservations.GetByID(ctx, payment.TripPassengerID)
	if err != nil {
		return nil, nil, err
	}
	return payment, r, nil
}

func (s *PaymentService) notify(ctx context.Context, payment *domain.Payment, r *domain.TripPassenger) {
	if err := s.notifier.NotifyPaymentReviewed(ctx, payment, r.PassengerID); err != nil {
		s.audit.Record(ctx, paymentOrigin, AuditNotificationFailed, err, map[string]any{"payment_id": payment.ID})
	}
}
