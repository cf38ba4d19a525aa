package repository

import (
	"context"
	"time"

	"tengolugar/internal/domain"
)

// ReservationRepository defines the persistence operations for trip passengers.
type ReservationRepository interface {
	// GetByID retrieves a reservation by ID.
	GetByID(ctx context.Context, id string) (*domain.TripPassenger, error)

	// ListByTrip retrieves every reservation of a trip.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.TripPassenger, error)

	// CountValidByTrip counts reservations of a trip that are not cancelled.
	CountValidByTrip(ctx context.Context, tripID string) (int, error)

	// TransitionStatus moves a reservation from one status to another, stamping
	// cancelled_at with at when to is a cancelled status.
	// Returns ErrStatusConflict if the reservation is not in from.
	TransitionStatus(ctx context.Context, id string, from, to domain.ReservationStatus, at time.Time) error

	// Cancel moves a reservation from one status to a cancelled one and
	// records why. Returns ErrStatusConflict if the status was not from.
	Cancel(ctx context.Context, id string, from, to domain.ReservationStatus, reason domain.CancellationReason, at time.Time) error

	// CompleteConfirmedByTrip moves every CONFIRMED reservation of a trip to
	// COMPLETED and returns the reservations it changed.
	CompleteConfirmedByTrip(ctx context.Context, tripID string) ([]*domain.TripPassenger, error)

	// ListPendingApprovalDepartingBefore retrieves PENDING_APPROVAL reservations
	// on open trips departing before cutoff.
	ListPendingApprovalDepartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.ExpiringReservation, error)

	// ListUnpaidDepartingBefore retrieves approved reservations whose payment
	// is still PENDING on open trips departing before cutoff.
	ListUnpaidDepartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.ExpiringReservation, error)
}
