package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

const tripColumns = `id, driver_id, status, departure_time, duration_seconds, available_seats, remaining_seats, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var durationSeconds sql.NullInt64

	if err := row.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.Status,
		&trip.DepartureTime,
		&durationSeconds,
		&trip.AvailableSeats,
		&trip.RemainingSeats,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if durationSeconds.Valid {
		trip.DurationSeconds = durationSeconds.Int64
	}

	return &trip, nil
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}

	return trip, nil
}

// ListByStatuses retrieves trips whose status is one of statuses.
func (r *TripRepository) ListByStatuses(ctx context.Context, statuses []domain.TripStatus) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = ANY($1) ORDER BY departure_time ASC`

	return r.queryTrips(ctx, query, pq.Array(statusStrings(statuses)))
}

// ListCompletedWithoutPayout retrieves completed trips that have no payout yet.
func (r *TripRepository) ListCompletedWithoutPayout(ctx context.Context, limit int) ([]*domain.Trip, error) {
	query := `
		SELECT t.id, t.driver_id, t.status, t.departure_time, t.duration_seconds, t.available_seats, t.remaining_seats, t.created_at, t.updated_at
		FROM trips t
		LEFT JOIN driver_payouts dp ON dp.trip_id = t.id
		WHERE t.status = $1 AND dp.id IS NULL
		ORDER BY t.updated_at ASC
		LIMIT $2
	`

	return r.queryTrips(ctx, query, domain.TripStatusCompleted, limit)
}

// TransitionStatus moves a trip from one status to another.
func (r *TripRepository) TransitionStatus(ctx context.Context, id string, from, to domain.TripStatus) error {
	query := `UPDATE trips SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	return expectOneRow(r.q.ExecContext(ctx, query, to, id, from))
}

// ReserveSeats decrements remaining seats when enough are left.
func (r *TripRepository) ReserveSeats(ctx context.Context, id string, seats int) error {
	query := `
		UPDATE trips
		SET remaining_seats = remaining_seats - $1, updated_at = NOW()
		WHERE id = $2 AND remaining_seats >= $1
	`

	err := expectOneRow(r.q.ExecContext(ctx, query, seats, id))
	if errors.Is(err, repository.ErrStatusConflict) {
		return repository.ErrInsufficientSeats
	}

	return err
}

// ReleaseSeats increments remaining seats, capped at available seats.
func (r *TripRepository) ReleaseSeats(ctx context.Context, id string, seats int) error {
	query := `
		UPDATE trips
		SET remaining_seats = LEAST(available_seats, remaining_seats + $1), updated_at = NOW()
		WHERE id = $2
	`

	err := expectOneRow(r.q.ExecContext(ctx, query, seats, id))
	if errors.Is(err, repository.ErrStatusConflict) {
		return repository.ErrNotFound
	}

	return err
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
