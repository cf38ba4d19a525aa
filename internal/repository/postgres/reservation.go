package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

// ReservationRepository is a PostgreSQL implementation of repository.ReservationRepository.
type ReservationRepository struct {
	q Querier
}

const reservationColumns = `tp.id, tp.trip_id, tp.passenger_id, tp.reservation_status, tp.seats_reserved, tp.created_at, tp.updated_at, tp.cancelled_at, tp.cancellation_reason`

func scanReservation(row rowScanner, extra ...any) (*domain.TripPassenger, error) {
	var res domain.TripPassenger
	var cancelledAt sql.NullTime
	var reason sql.NullString

	dest := []any{
		&res.ID,
		&res.TripID,
		&res.PassengerID,
		&res.Status,
		&res.SeatsReserved,
		&res.CreatedAt,
		&res.UpdatedAt,
		&cancelledAt,
		&reason,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		res.CancelledAt = cancelledAt.Time
	}
	res.CancellationReason = domain.CancellationReason(reason.String)

	return &res, nil
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]*domain.TripPassenger, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.TripPassenger
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

// GetByID retrieves a reservation by ID.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.TripPassenger, error) {
	query := `SELECT ` + reservationColumns + ` FROM trip_passengers tp WHERE tp.id = $1`

	res, err := scanReservation(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}

	return res, nil
}

// ListByTrip retrieves every reservation of a trip.
func (r *ReservationRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.TripPassenger, error) {
	query := `SELECT ` + reservationColumns + ` FROM trip_passengers tp WHERE tp.trip_id = $1 ORDER BY tp.created_at ASC`

	return r.queryReservations(ctx, query, tripID)
}

// CountValidByTrip counts non-cancelled reservations of a trip.
func (r *ReservationRepository) CountValidByTrip(ctx context.Context, tripID string) (int, error) {
	query := `SELECT COUNT(*) FROM trip_passengers WHERE trip_id = $1 AND NOT (reservation_status = ANY($2))`

	var count int
	err := r.q.QueryRowContext(ctx, query, tripID, pq.Array(statusStrings(domain.CancelledStatuses()))).Scan(&count)

	return count, err
}

// TransitionStatus moves a reservation from one status to another.
func (r *ReservationRepository) TransitionStatus(ctx context.Context, id string, from, to domain.ReservationStatus, at time.Time) error {
	var cancelledAt sql.NullTime
	if to.IsCancelled() {
		cancelledAt = toNullTime(at)
	}

	query := `
		UPDATE trip_passengers
		SET reservation_status = $1, cancelled_at = COALESCE($2, cancelled_at), updated_at = NOW()
		WHERE id = $3 AND reservation_status = $4
	`

	return expectOneRow(r.q.ExecContext(ctx, query, to, cancelledAt, id, from))
}

// Cancel moves a reservation to a cancelled status and records the reason.
func (r *ReservationRepository) Cancel(ctx context.Context, id string, from, to domain.ReservationStatus, reason domain.CancellationReason, at time.Time) error {
	if !to.IsCancelled() {
		return fmt.Errorf("cancel reservation: %s is not a cancelled status", to)
	}

	query := `
		UPDATE trip_passengers
		SET reservation_status = $1, cancelled_at = $2, cancellation_reason = $3, updated_at = NOW()
		WHERE id = $4 AND reservation_status = $5
	`

	return expectOneRow(r.q.ExecContext(ctx, query, to, at, reason, id, from))
}

// CompleteConfirmedByTrip moves every CONFIRMED reservation of a trip to COMPLETED.
func (r *ReservationRepository) CompleteConfirmedByTrip(ctx context.Context, tripID string) ([]*domain.TripPassenger, error) {
	query := `
		UPDATE trip_passengers tp
		SET reservation_status = $1, updated_at = NOW()
		WHERE tp.trip_id = $2 AND tp.reservation_status = $3
		RETURNING ` + reservationColumns

	return r.queryReservations(ctx, query, domain.ReservationCompleted, tripID, domain.ReservationConfirmed)
}

const expiringQuery = `
	SELECT ` + reservationColumns + `, t.departure_time, COALESCE(p.id, ''), COALESCE(p.status, '')
	FROM trip_passengers tp
	JOIN trips t ON t.id = tp.trip_id
	LEFT JOIN payments p ON p.trip_passenger_id = tp.id
`

func (r *ReservationRepository) queryExpiring(ctx context.Context, query string, args ...any) ([]*domain.ExpiringReservation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.ExpiringReservation
	for rows.Next() {
		var exp domain.ExpiringReservation

		res, err := scanReservation(rows, &exp.DepartureTime, &exp.PaymentID, &exp.PaymentStatus)
		if err != nil {
			return nil, err
		}

		exp.Reservation = *res
		result = append(result, &exp)
	}

	return result, rows.Err()
}

// ListPendingApprovalDepartingBefore retrieves stale pending requests.
func (r *ReservationRepository) ListPendingApprovalDepartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.ExpiringReservation, error) {
	query := expiringQuery + `
		WHERE tp.reservation_status = $1
		  AND t.status = ANY($2)
		  AND t.departure_time < $3
		ORDER BY t.departure_time ASC
	`

	return r.queryExpiring(ctx, query,
		domain.ReservationPendingApproval,
		pq.Array(openTripStatuses()),
		cutoff,
	)
}

// ListUnpaidDepartingBefore retrieves approved reservations still awaiting payment.
func (r *ReservationRepository) ListUnpaidDepartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.ExpiringReservation, error) {
	query := expiringQuery + `
		WHERE tp.reservation_status = ANY($1)
		  AND p.status = $2
		  AND t.status = ANY($3)
		  AND t.departure_time < $4
		ORDER BY t.departure_time ASC
	`

	approved := []domain.ReservationStatus{domain.ReservationApproved, domain.ReservationApprovedPendingPayment}

	return r.queryExpiring(ctx, query,
		pq.Array(statusStrings(approved)),
		domain.PaymentStatusPending,
		pq.Array(openTripStatuses()),
		cutoff,
	)
}

func statusStrings[S ~string](statuses []S) []string {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return values
}

func openTripStatuses() []string {
	return statusStrings([]domain.TripStatus{domain.TripStatusPending, domain.TripStatusActive})
}

// Ensure ReservationRepository implements repository.ReservationRepository.
var _ repository.ReservationRepository = (*ReservationRepository)(nil)
