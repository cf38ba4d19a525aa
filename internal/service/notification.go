package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tengolugar/internal/domain"
	"tengolugar/internal/redis"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripCompleted        NotificationType = "TRIP_COMPLETED"
	NotificationTripCancelled        NotificationType = "TRIP_CANCELLED"
	NotificationReservationApproved  NotificationType = "RESERVATION_APPROVED"
	NotificationReservationRejected  NotificationType = "RESERVATION_REJECTED"
	NotificationReservationExpired   NotificationType = "RESERVATION_EXPIRED"
	NotificationReservationCancelled NotificationType = "RESERVATION_CANCELLED"
	NotificationPaymentVerified      NotificationType = "PAYMENT_VERIFIED"
	NotificationPaymentRejected      NotificationType = "PAYMENT_REJECTED"
	NotificationPayoutCompleted      NotificationType = "PAYOUT_COMPLETED"
	NotificationPayoutFailed         NotificationType = "PAYOUT_FAILED"
	NotificationReviewReminder       NotificationType = "REVIEW_REMINDER"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipientId"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        map[string]any   `json:"data,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// NotificationService hands notifications to the delivery workers over
// Redis pub/sub. Each send is bounded by timeout so a slow broker cannot
// stall a sweep.
type NotificationService struct {
	publisher redis.PublisherInterface
	log       logrus.FieldLogger
	clock     Clock
	timeout   time.Duration
}

// NewNotificationService creates a new NotificationService. A nil publisher
// only logs.
func NewNotificationService(publisher redis.PublisherInterface, log logrus.FieldLogger, clock Clock, timeout time.Duration) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		log:       log,
		clock:     clock,
		timeout:   timeout,
	}
}

// NotifyTripCompleted notifies the driver and every passenger whose
// reservation completed with the trip. A failed send does not stop the
// others; the failures are returned joined.
func (s *NotificationService) NotifyTripCompleted(ctx context.Context, trip *domain.Trip, passengers []*domain.TripPassenger) error {
	data := map[string]any{"trip_id": trip.ID}

	var errs []error
	if err := s.send(ctx, s.build(NotificationTripCompleted, trip.DriverID,
		"Trip Completed", "Your trip has been marked as completed.", data)); err != nil {
		errs = append(errs, fmt.Errorf("notify driver %s: %w", trip.DriverID, err))
	}

	for _, p := range passengers {
		if err := s.send(ctx, s.build(NotificationTripCompleted, p.PassengerID,
			"Trip Completed", "Your trip has been completed. Tell us how it went!", data)); err != nil {
			errs = append(errs, fmt.Errorf("notify passenger %s: %w", p.PassengerID, err))
		}
	}
	return errors.Join(errs...)
}

// NotifyTripCancelled notifies the driver that the trip was cancelled.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, trip *domain.Trip, reason string) error {
	return s.send(ctx, s.build(NotificationTripCancelled, trip.DriverID,
		"Trip Cancelled", reason, map[string]any{"trip_id": trip.ID}))
}

// NotifyReservationStatus notifies a passenger that their reservation moved
// to a new status.
func (s *NotificationService) NotifyReservationStatus(ctx context.Context, r *domain.TripPassenger, reason string) error {
	typ, title := reservationNotification(r.Status)
	return s.send(ctx, s.build(typ, r.PassengerID, title, reason, map[string]any{
		"trip_id":        r.TripID,
		"reservation_id": r.ID,
		"status":         r.Status,
	}))
}

// NotifyReservationExpired notifies a passenger that a sweep cancelled
// their reservation.
func (s *NotificationService) NotifyReservationExpired(ctx context.Context, r *domain.TripPassenger, reason string) error {
	return s.send(ctx, s.build(NotificationReservationExpired, r.PassengerID,
		"Reservation Expired", reason, map[string]any{
			"trip_id":        r.TripID,
			"reservation_id": r.ID,
			"status":         r.Status,
		}))
}

// NotifyPaymentReviewed notifies a passenger of the outcome of a payment
// proof review.
func (s *NotificationService) NotifyPaymentReviewed(ctx context.Context, payment *domain.Payment, passengerID string) error {
	typ, title, message := NotificationPaymentVerified, "Payment Verified", "Your payment was verified. Your seat is confirmed."
	if payment.Status != domain.PaymentStatusCompleted {
		typ, title, message = NotificationPaymentRejected, "Payment Rejected", "Your payment proof was rejected."
	}
	return s.send(ctx, s.build(typ, passengerID, title, message, map[string]any{
		"payment_id":     payment.ID,
		"reservation_id": payment.TripPassengerID,
		"amount":         payment.TotalAmount,
	}))
}

// NotifyPayoutFinalized notifies the driver that a payout completed or failed.
func (s *NotificationService) NotifyPayoutFinalized(ctx context.Context, payout *domain.DriverPayout) error {
	data := map[string]any{
		"payout_id":     payout.ID,
		"trip_id":       payout.TripID,
		"payout_amount": payout.PayoutAmount,
	}

	switch payout.Status {
	case domain.PayoutStatusCompleted:
		return s.send(ctx, s.build(NotificationPayoutCompleted, payout.DriverID, "Payout Sent",
			fmt.Sprintf("Your payout of %d has been transferred.", payout.PayoutAmount), data))
	case domain.PayoutStatusFailed:
		data["failure_reason"] = payout.FailureReason
		return s.send(ctx, s.build(NotificationPayoutFailed, payout.DriverID, "Payout Failed",
			"Your payout could not be transferred. Our team will contact you.", data))
	default:
		return nil
	}
}

// NotifyReviewReminder asks a passenger to review a completed trip.
func (s *NotificationService) NotifyReviewReminder(ctx context.Context, tripID, passengerID string) error {
	return s.send(ctx, s.build(NotificationReviewReminder, passengerID,
		"How was your trip?", "Leave a review for your driver.", map[string]any{"trip_id": tripID}))
}

func (s *NotificationService) build(typ NotificationType, recipientID, title, message string, data map[string]any) Notification {
	return Notification{
		ID:          uuid.New().String(),
		Type:        typ,
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Data:        data,
		CreatedAt:   s.clock.Now(),
	}
}

func (s *NotificationService) send(ctx context.Context, n Notification) error {
	s.log.WithFields(logrus.Fields{
		"type":      n.Type,
		"recipient": n.RecipientID,
	}).Info(n.Title)

	if s.publisher == nil {
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.publisher.Publish(ctx, n); err != nil {
		return fmt.Errorf("publish %s notification: %w", n.Type, err)
	}
	return nil
}

func reservationNotification(status domain.ReservationStatus) (NotificationType, string) {
	switch status {
	case domain.ReservationApprovedPendingPayment:
		return NotificationReservationApproved, "Reservation Approved"
	case domain.ReservationCancelledByDriver:
		return NotificationReservationRejected, "Reservation Rejected"
	default:
		return NotificationReservationCancelled, "Reservation Cancelled"
	}
}
