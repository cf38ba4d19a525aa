package app

import (
	"context"

	"tengolugar/internal/config"
	"tengolugar/internal/handler"
	"tengolugar/internal/scheduler"
)

// Job names, also used in the /v1/internal/jobs/:name route.
const (
	JobCompleteExpiredTrips     = "complete-expired-trips"
	JobRejectPendingRequests    = "reject-expired-pending-reservations"
	JobExpireUnpaidReservations = "expire-unpaid-reservations"
	JobBackfillPayouts          = "backfill-payouts"
	JobDispatchReviewReminders  = "dispatch-review-reminders"
)

var _ handler.JobRunner = (*scheduler.Runner)(nil)

// Jobs returns the periodic jobs backed by svcs.
func Jobs(svcs *Services, cfg config.SchedulerConfig) []scheduler.Job {
	return []scheduler.Job{
		{
			Name:     JobCompleteExpiredTrips,
			Interval: cfg.CompleteTripsInterval,
			Run: func(ctx context.Context) (any, error) {
				return svcs.Lifecycle.CompleteExpiredTrips(ctx)
			},
		},
		{
			Name:     JobRejectPendingRequests,
			Interval: cfg.RejectPendingInterval,
			Run: func(ctx context.Context) (any, error) {
				return svcs.Expiry.RejectExpiredPendingReservations(ctx)
			},
		},
		{
			Name:     JobExpireUnpaidReservations,
			Interval: cfg.ExpireUnpaidInterval,
			Run: func(ctx context.Context) (any, error) {
				return svcs.Expiry.ExpireUnpaidReservations(ctx)
			},
		},
		{
			Name:     JobBackfillPayouts,
			Interval: cfg.BackfillPayoutsInterval,
			Run: func(ctx context.Context) (any, error) {
				return svcs.Payouts.BackfillMissingPayouts(ctx)
			},
		},
		{
			Name:     JobDispatchReviewReminders,
			Interval: cfg.RemindersInterval,
			Run: func(ctx context.Context) (any, error) {
				return svcs.Reminders.DispatchDue(ctx)
			},
		},
	}
}
