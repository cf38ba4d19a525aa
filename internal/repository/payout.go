package repository

import (
	"context"
	"time"

	"tengolugar/internal/domain"
)

// PayoutTransition describes a conditional payout status change and the
// fields recorded with it. Zero-valued optional fields are left untouched.
type PayoutTransition struct {
	From             domain.PayoutStatus
	To               domain.PayoutStatus
	ProcessedBy      string
	TransferProofKey string
	TransferredAt    time.Time
	FailureReason    string
}

// PayoutRepository defines the persistence operations for driver payouts.
type PayoutRepository interface {
	// Create persists a new payout. Returns false without error when the
	// trip already has a payout.
	Create(ctx context.Context, payout *domain.DriverPayout) (bool, error)

	// GetByID retrieves a payout by ID.
	GetByID(ctx context.Context, id string) (*domain.DriverPayout, error)

	// GetByTripID retrieves the payout of a trip.
	GetByTripID(ctx context.Context, tripID string) (*domain.DriverPayout, error)

	// Transition applies a conditional status change.
	// Returns ErrStatusConflict if the payout is not in t.From.
	Transition(ctx context.Context, id string, t PayoutTransition) error
}
