package repository

import (
	"context"

	"tengolugar/internal/domain"
)

// AuditRepository persists operational audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}
