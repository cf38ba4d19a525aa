package repository

import (
	"context"

	"tengolugar/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// ListByStatuses retrieves trips whose status is one of statuses,
	// ordered by departure time.
	ListByStatuses(ctx context.Context, statuses []domain.TripStatus) ([]*domain.Trip, error)

	// ListCompletedWithoutPayout retrieves completed trips that have no
	// driver payout yet.
	ListCompletedWithoutPayout(ctx context.Context, limit int) ([]*domain.Trip, error)

	// TransitionStatus moves a trip from one status to another.
	// Returns ErrStatusConflict if the trip is not in from.
	TransitionStatus(ctx context.Context, id string, from, to domain.TripStatus) error

	// ReserveSeats decrements remaining seats.
	// Returns ErrInsufficientSeats if fewer than seats remain.
	ReserveSeats(ctx context.Context, id string, seats int) error

	// ReleaseSeats increments remaining seats, capped at available seats.
	ReleaseSeats(ctx context.Context, id string, seats int) error
}
