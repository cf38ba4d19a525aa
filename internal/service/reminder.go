package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"tengolugar/internal/domain"
	"tengolugar/internal/redis"
)

const (
	reminderOrigin = "review-reminder"

	// ReviewReminderDelay is how long after completion a passenger is asked
	// to review the trip.
	ReviewReminderDelay = 2 * time.Hour

	reminderBatchSize = 200
)

// ReviewReminderService schedules and delivers post-trip review reminders.
type ReviewReminderService struct {
	store    redis.ReminderStoreInterface
	notifier *NotificationService
	audit    AuditRecorder
	clock    Clock
	log      logrus.FieldLogger
}

// NewReviewReminderService creates a new ReviewReminderService.
func NewReviewReminderService(
	store redis.ReminderStoreInterface,
	notifier *NotificationService,
	audit AuditRecorder,
	clock Clock,
	log logrus.FieldLogger,
) *ReviewReminderService {
	return &ReviewReminderService{
		store:    store,
		notifier: notifier,
		audit:    audit,
		clock:    clock,
		log:      log,
	}
}

// ScheduleForTrip schedules one reminder per passenger, due
// ReviewReminderDelay after the trip's completion time. Trips closed late
// get reminders that are already due.
func (s *ReviewReminderService) ScheduleForTrip(ctx context.Context, trip *domain.Trip, passengers []*domain.TripPassenger) error {
	dueAt := trip.CompletionTime().Add(ReviewReminderDelay)

	for _, p := range passengers {
		err := s.store.ScheduleReviewReminder(ctx, redis.ReviewReminder{
			TripID:      trip.ID,
			PassengerID: p.PassengerID,
			DueAt:       dueAt,
		})
		if err != nil {
			return fmt.Errorf("schedule review reminder for %s: %w", p.PassengerID, err)
		}
	}
	return nil
}

// DispatchDue sends every reminder that has come due and removes it.
// A reminder whose send fails stays in the store for the next run.
func (s *ReviewReminderService) DispatchDue(ctx context.Context) (*ReminderDispatchResult, error) {
	due, err := s.store.DueReviewReminders(ctx, s.clock.Now(), reminderBatchSize)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}

	result := &ReminderDispatchResult{DueReminders: len(due)}
	for _, r := range due {
		details := map[string]any{"trip_id": r.TripID, "passenger_id": r.PassengerID}

		if err := s.notifier.NotifyReviewReminder(ctx, r.TripID, r.PassengerID); err != nil {
			result.FailureCount++
			s.audit.Record(ctx, reminderOrigin, AuditReminderDispatchError, err, details)
			continue
		}

		if err := s.store.RemoveReviewReminder(ctx, r); err != nil {
			s.log.WithError(err).WithFields(details).Warn("failed to remove delivered review reminder")
		}
		result.SentCount++
	}
	return result, nil
}
