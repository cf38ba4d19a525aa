package postgres

import (
	"context"
	"database/sql"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

// PayoutRepository is a PostgreSQL implementation of repository.PayoutRepository.
type PayoutRepository struct {
	q Querier
}

const payoutColumns = `id, trip_id, driver_id, status, total_received, service_fee, late_cancellation_penalty, payout_amount,
	transfer_proof_key, transferred_at, processed_by, failure_reason, created_at, updated_at`

func scanPayout(row rowScanner) (*domain.DriverPayout, error) {
	var payout domain.DriverPayout
	var proofKey, processedBy, failureReason sql.NullString
	var transferredAt sql.NullTime

	if err := row.Scan(
		&payout.ID,
		&payout.TripID,
		&payout.DriverID,
		&payout.Status,
		&payout.TotalReceived,
		&payout.ServiceFee,
		&payout.LateCancellationPenalty,
		&payout.PayoutAmount,
		&proofKey,
		&transferredAt,
		&processedBy,
		&failureReason,
		&payout.CreatedAt,
		&payout.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}

	payout.TransferProofKey = proofKey.String
	payout.ProcessedBy = processedBy.String
	payout.FailureReason = failureReason.String
	if transferredAt.Valid {
		payout.TransferredAt = transferredAt.Time
	}

	return &payout, nil
}

// Create persists a new payout unless the trip already has one.
func (r *PayoutRepository) Create(ctx context.Context, payout *domain.DriverPayout) (bool, error) {
	query := `
		INSERT INTO driver_payouts (id, trip_id, driver_id, status, total_received, service_fee, late_cancellation_penalty, payout_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (trip_id) DO NOTHING
	`

	result, err := r.q.ExecContext(ctx, query,
		payout.ID,
		payout.TripID,
		payout.DriverID,
		payout.Status,
		payout.TotalReceived,
		payout.ServiceFee,
		payout.LateCancellationPenalty,
		payout.PayoutAmount,
		payout.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// GetByID retrieves a payout by ID.
func (r *PayoutRepository) GetByID(ctx context.Context, id string) (*domain.DriverPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM driver_payouts WHERE id = $1`

	return scanPayout(r.q.QueryRowContext(ctx, query, id))
}

// GetByTripID retrieves the payout of a trip.
func (r *PayoutRepository) GetByTripID(ctx context.Context, tripID string) (*domain.DriverPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM driver_payouts WHERE trip_id = $1`

	return scanPayout(r.q.QueryRowContext(ctx, query, tripID))
}

// Transition applies a conditional status change.
func (r *PayoutRepository) Transition(ctx context.Context, id string, t repository.PayoutTransition) error {
	query := `
		UPDATE driver_payouts
		SET status = $1,
			processed_by = COALESCE($2, processed_by),
			transfer_proof_key = COALESCE($3, transfer_proof_key),
			transferred_at = COALESCE($4, transferred_at),
			failure_reason = COALESCE($5, failure_reason),
			updated_at = NOW()
		WHERE id = $6 AND status = $7
	`

	return expectOneRow(r.q.ExecContext(ctx, query,
		t.To,
		toNullString(t.ProcessedBy),
		toNullString(t.TransferProofKey),
		toNullTime(t.TransferredAt),
		toNullString(t.FailureReason),
		id,
		t.From,
	))
}

// Ensure PayoutRepository implements repository.PayoutRepository.
var _ repository.PayoutRepository = (*PayoutRepository)(nil)
