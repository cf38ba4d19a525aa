package repository

import (
	"context"

	"tengolugar/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByReservationID retrieves the payment of a reservation.
	GetByReservationID(ctx context.Context, reservationID string) (*domain.Payment, error)

	// TransitionStatus moves a payment from one status to another.
	// Returns ErrStatusConflict if the payment is not in from.
	TransitionStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error

	// SubmitProof attaches a proof key and moves a PENDING payment to PROCESSING.
	// Returns ErrStatusConflict if the payment is not PENDING.
	SubmitProof(ctx context.Context, id, proofKey string) error

	// SumCompletedByTrip sums total_amount over COMPLETED payments of a trip.
	SumCompletedByTrip(ctx context.Context, tripID string) (int64, error)
}
