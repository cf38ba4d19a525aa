package repository

import "context"

// Repos groups the repositories that take part in a unit of work.
type Repos struct {
	Trips        TripRepository
	Reservations ReservationRepository
	Payments     PaymentRepository
	Payouts      PayoutRepository
	Drivers      DriverRepository
}

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Repos) error) error
}
