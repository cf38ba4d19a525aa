package postgres

import (
	"context"
	"database/sql"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

const paymentColumns = `id, trip_passenger_id, status, total_amount, proof_key, updated_at`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var proofKey sql.NullString

	if err := row.Scan(
		&payment.ID,
		&payment.TripPassengerID,
		&payment.Status,
		&payment.TotalAmount,
		&proofKey,
		&payment.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}

	payment.ProofKey = proofKey.String

	return &payment, nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	return scanPayment(r.q.QueryRowContext(ctx, query, id))
}

// GetByReservationID retrieves the payment of a reservation.
func (r *PaymentRepository) GetByReservationID(ctx context.Context, reservationID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE trip_passenger_id = $1`

	return scanPayment(r.q.QueryRowContext(ctx, query, reservationID))
}

// TransitionStatus moves a payment from one status to another.
func (r *PaymentRepository) TransitionStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	query := `UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	return expectOneRow(r.q.ExecContext(ctx, query, to, id, from))
}

// SubmitProof attaches a proof key and moves a PENDING payment to PROCESSING.
func (r *PaymentRepository) SubmitProof(ctx context.Context, id, proofKey string) error {
	query := `
		UPDATE payments
		SET status = $1, proof_key = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	return expectOneRow(r.q.ExecContext(ctx, query,
		domain.PaymentStatusProcessing,
		proofKey,
		id,
		domain.PaymentStatusPending,
	))
}

// SumCompletedByTrip sums total_amount over COMPLETED payments of a trip.
func (r *PaymentRepository) SumCompletedByTrip(ctx context.Context, tripID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(p.total_amount), 0)
		FROM payments p
		JOIN trip_passengers tp ON tp.id = p.trip_passenger_id
		WHERE tp.trip_id = $1 AND p.status = $2
	`

	var total int64
	err := r.q.QueryRowContext(ctx, query, tripID, domain.PaymentStatusCompleted).Scan(&total)

	return total, err
}

// Ensure PaymentRepository implements repository.PaymentRepository.
var _ repository.PaymentRepository = (*PaymentRepository)(nil)
