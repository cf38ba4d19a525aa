package app

import (
	"database/sql"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"tengolugar/internal/config"
	"tengolugar/internal/domain"
	"tengolugar/internal/handler"
	internalRedis "tengolugar/internal/redis"
	"tengolugar/internal/repository/postgres"
	"tengolugar/internal/service"
)

// Services holds every wired business service.
type Services struct {
	Audit        *service.AuditLogger
	Notifier     *service.NotificationService
	Reminders    *service.ReviewReminderService
	Payouts      *service.PayoutService
	Lifecycle    *service.TripLifecycleManager
	Expiry       *service.ReservationExpiryManager
	Reservations *service.ReservationService
	Payments     *service.PaymentService
	Trips        *service.TripService
}

// NewServices wires repositories and Redis stores into the services.
func NewServices(db *sql.DB, redisClient *redis.Client, cfg *config.Config, log logrus.FieldLogger) *Services {
	clock := service.RealClock()

	repos := postgres.NewRepos(db)
	tx := postgres.NewTransactor(db)

	audit := service.NewAuditLogger(postgres.NewAuditRepository(db), log, clock)
	publisher := internalRedis.NewPublisher(redisClient, internalRedis.NotificationChannel)
	notifier := service.NewNotificationService(publisher, log, clock, cfg.Scheduler.NotifyTimeout)
	reminders := service.NewReviewReminderService(internalRedis.NewReminderStore(redisClient), notifier, audit, clock, log)

	policy := domain.FeePolicy{
		FixedFee:         cfg.Payout.FixedFee,
		FeeRate:          cfg.Payout.FeeRate,
		PenaltyPerSeat:   cfg.Payout.PenaltyPerSeat,
		LateCancelWindow: cfg.Payout.LateCancelWindow,
	}
	payouts := service.NewPayoutService(repos, policy, notifier, audit, clock, log)

	return &Services{
		Audit:        audit,
		Notifier:     notifier,
		Reminders:    reminders,
		Payouts:      payouts,
		Lifecycle:    service.NewTripLifecycleManager(repos, tx, payouts, reminders, notifier, audit, clock, log, cfg.Scheduler.NotifyTimeout),
		Expiry:       service.NewReservationExpiryManager(repos, tx, notifier, audit, clock, log),
		Reservations: service.NewReservationService(repos, tx, notifier, audit, clock, log),
		Payments:     service.NewPaymentService(repos, tx, notifier, audit, clock, log),
		Trips:        service.NewTripService(repos, tx, notifier, audit, clock, log),
	}
}

// Ensure services satisfy the handler interfaces.
var (
	_ handler.TripCanceller      = (*service.TripService)(nil)
	_ handler.ReservationActions = (*service.ReservationService)(nil)
	_ handler.PaymentReviewer    = (*service.PaymentService)(nil)
	_ handler.PayoutManager      = (*service.PayoutService)(nil)
)
