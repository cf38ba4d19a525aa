package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

// AuditRepository is a PostgreSQL implementation of repository.AuditRepository.
type AuditRepository struct {
	q Querier
}

// NewAuditRepository creates a new PostgreSQL audit repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{q: db}
}

// Create persists an audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO audit_logs (id, origin, code, message, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.q.ExecContext(ctx, query,
		entry.ID,
		entry.Origin,
		entry.Code,
		entry.Message,
		details,
		entry.CreatedAt,
	)

	return err
}

// Ensure AuditRepository implements repository.AuditRepository.
var _ repository.AuditRepository = (*AuditRepository)(nil)
