package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"tengolugar/internal/app"
	"tengolugar/internal/config"
	"tengolugar/internal/handler"
	"tengolugar/internal/logger"
	internalRedis "tengolugar/internal/redis"
	"tengolugar/internal/scheduler"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, every authenticated route will reject requests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database and Redis can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Error("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	svcs := app.NewServices(db, redisClient, cfg, log)
	runner := scheduler.NewRunner(
		internalRedis.NewLockStore(redisClient),
		nrApp,
		svcs.Audit,
		log,
		cfg.Scheduler,
		app.Jobs(svcs, cfg.Scheduler)...,
	)
	server := wireServer(svcs, runner, redisClient, nrApp, cfg, log)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if cfg.Scheduler.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scheduler.New(runner, log).Run(runCtx)
		}()
		log.Info("scheduler started")
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			stop()
		}
	}()

	<-runCtx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	wg.Wait()
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
}

// wireServer builds the handlers and returns the HTTP server.
func wireServer(
	svcs *app.Services,
	runner *scheduler.Runner,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	cfg *config.Config,
	log logrus.FieldLogger,
) *http.Server {
	router := app.NewRouter(app.RouterDeps{
		JobHandler:         handler.NewJobHandler(runner),
		TripHandler:        handler.NewTripHandler(svcs.Trips),
		ReservationHandler: handler.NewReservationHandler(svcs.Reservations),
		PaymentHandler:     handler.NewPaymentHandler(svcs.Payments),
		PayoutHandler:      handler.NewPayoutHandler(svcs.Payouts),
		ResponseCache:      internalRedis.NewResponseCache(redisClient),
		NewRelicApp:        nrApp,
		Auth:               cfg.Auth,
		Log:                log,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
