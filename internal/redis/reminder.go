package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const reviewReminderKey = "reminders:review"

// ReviewReminder asks a passenger to review a completed trip.
type ReviewReminder struct {
	TripID      string
	PassengerID string
	DueAt       time.Time
}

// ReminderStore schedules review reminders in a sorted set scored by due time.
type ReminderStore struct {
	client *redis.Client
}

// NewReminderStore creates a new ReminderStore.
func NewReminderStore(client *redis.Client) *ReminderStore {
	return &ReminderStore{client: client}
}

// ScheduleReviewReminder stores a reminder. Scheduling the same trip and
// passenger twice only moves the due time.
func (s *ReminderStore) ScheduleReviewReminder(ctx context.Context, r ReviewReminder) error {
	return s.client.ZAdd(ctx, reviewReminderKey, redis.Z{
		Score:  float64(r.DueAt.Unix()),
		Member: r.TripID + ":" + r.PassengerID,
	}).Err()
}

// DueReviewReminders returns up to limit reminders due at or before now.
func (s *ReminderStore) DueReviewReminders(ctx context.Context, now time.Time, limit int64) ([]ReviewReminder, error) {
	results, err := s.client.ZRangeByScoreWithScores(ctx, reviewReminderKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, err
	}

	reminders := make([]ReviewReminder, 0, len(results))
	for _, z := range results {
		member, _ := z.Member.(string)
		tripID, passengerID, ok := strings.Cut(member, ":")
		if !ok {
			return nil, fmt.Errorf("malformed reminder member %q", member)
		}
		reminders = append(reminders, ReviewReminder{
			TripID:      tripID,
			PassengerID: passengerID,
			DueAt:       time.Unix(int64(z.Score), 0),
		})
	}

	return reminders, nil
}

// RemoveReviewReminder deletes a reminder once it has been delivered.
func (s *ReminderStore) RemoveReviewReminder(ctx context.Context, r ReviewReminder) error {
	return s.client.ZRem(ctx, reviewReminderKey, r.TripID+":"+r.PassengerID).Err()
}
