package domain

import "time"

// AuditEntry records an operational failure for operator review.
type AuditEntry struct {
	ID        string
	Origin    string
	Code      string
	Message   string
	Details   map[string]any
	CreatedAt time.Time
}
