package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler triggers every job with a non-zero interval on its own ticker.
type Scheduler struct {
	runner *Runner
	log    logrus.FieldLogger
}

// New creates a new Scheduler.
func New(runner *Runner, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{runner: runner, log: log}
}

// Run blocks until ctx is cancelled and every in-flight run has returned.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, job := range s.runner.Jobs() {
		if job.Interval <= 0 {
			continue
		}
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.loop(ctx, job)
		}(job)
	}

	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	log := s.log.WithFields(logrus.Fields{"job": job.Name, "interval": job.Interval.String()})
	log.Info("job scheduled")

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("job loop stopped")
			return
		case <-ticker.C:
			result, err := s.runner.Run(ctx, job)
			if err != nil && !errors.Is(err, ErrJobAlreadyRunning) && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("scheduled run failed")
				continue
			}
			if result.Success {
				log.WithField("data", result.Data).Debug("scheduled run succeeded")
			}
		}
	}
}
