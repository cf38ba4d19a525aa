package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tengolugar/internal/domain"
	"tengolugar/internal/repository"
)

// Audit codes.
const (
	AuditTripCompletionFailed  = "TRIP_COMPLETION_FAILED"
	AuditFollowUpFailed        = "TRIP_FOLLOW_UP_FAILED"
	AuditReservationExpiry     = "RESERVATION_EXPIRY_FAILED"
	AuditPayoutCreationFailed  = "PAYOUT_CREATION_FAILED"
	AuditNotificationFailed    = "NOTIFICATION_FAILED"
	AuditJobFailed             = "JOB_FAILED"
	AuditReminderDispatchError = "REMINDER_DISPATCH_FAILED"
)

// AuditRecorder receives operational failures for operator review.
type AuditRecorder interface {
	Record(ctx context.Context, origin, code string, err error, details map[string]any)
}

// AuditLogger logs failures and stores them in the audit repository.
// Storage is best effort; a failed insert is only logged.
type AuditLogger struct {
	repo  repository.AuditRepository
	log   logrus.FieldLogger
	clock Clock
}

// NewAuditLogger creates a new AuditLogger. repo may be nil.
func NewAuditLogger(repo repository.AuditRepository, log logrus.FieldLogger, clock Clock) *AuditLogger {
	return &AuditLogger{repo: repo, log: log, clock: clock}
}

// Record logs and persists an audit entry.
func (a *AuditLogger) Record(ctx context.Context, origin, code string, err error, details map[string]any) {
	message := ""
	if err != nil {
		message = err.Error()
	}

	fields := logrus.Fields{"origin": origin, "code": code}
	for k, v := range details {
		fields[k] = v
	}
	a.log.WithFields(fields).Error(message)

	if a.repo == nil {
		return
	}

	entry := &domain.AuditEntry{
		ID:        uuid.New().String(),
		Origin:    origin,
		Code:      code,
		Message:   message,
		Details:   details,
		CreatedAt: a.clock.Now(),
	}

	// The caller's context may already be past its deadline.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if storeErr := a.repo.Create(storeCtx, entry); storeErr != nil {
		a.log.WithError(storeErr).WithField("code", code).Warn("failed to store audit entry")
	}
}

var _ AuditRecorder = (*AuditLogger)(nil)
