package postgres

import (
	"context"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// GetByID retrieves a driver by ID. A driver counts as having a verified bank
// account when at least one of their accounts is verified.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT d.id, d.name,
			EXISTS (SELECT 1 FROM bank_accounts ba WHERE ba.driver_id = d.id AND ba.is_verified)
		FROM drivers d
		WHERE d.id = $1
	`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.BankAccountVerified,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return &driver, nil
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
