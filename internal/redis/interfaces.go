package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed job locking.
type LockStoreInterface interface {
	AcquireJobLock(ctx context.Context, job string, ttl time.Duration) (string, error)
	ReleaseJobLock(ctx context.Context, job, token string) error
}

// ReminderStoreInterface defines the interface for review reminder scheduling.
type ReminderStoreInterface interface {
	ScheduleReviewReminder(ctx context.Context, r ReviewReminder) error
	DueReviewReminders(ctx context.Context, now time.Time, limit int64) ([]ReviewReminder, error)
	RemoveReviewReminder(ctx context.Context, r ReviewReminder) error
}

// PublisherInterface defines the interface for event publishing.
type PublisherInterface interface {
	Publish(ctx context.Context, v any) error
}

// ResponseCacheInterface defines the interface for cached HTTP responses.
type ResponseCacheInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface     = (*LockStore)(nil)
	_ ReminderStoreInterface = (*ReminderStore)(nil)
	_ PublisherInterface     = (*Publisher)(nil)
	_ ResponseCacheInterface = (*ResponseCache)(nil)
)
