package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"tengolugar/internal/config"
	"tengolugar/internal/redis"
	"tengolugar/internal/service"
)

const runnerOrigin = "scheduler"

var (
	// ErrJobAlreadyRunning is returned when another process holds the job lock.
	ErrJobAlreadyRunning = errors.New("job already running")

	// ErrUnknownJob is returned when no job is registered under a name.
	ErrUnknownJob = errors.New("unknown job")
)

// Job is a named unit of periodic work. Interval zero means the job only
// runs on demand.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (any, error)
}

// Result is the envelope returned for every job run.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Runner executes jobs under a distributed lock so each job runs at most
// once at a time across processes.
type Runner struct {
	locks       redis.LockStoreInterface
	nrApp       *newrelic.Application
	audit       service.AuditRecorder
	log         logrus.FieldLogger
	lockTTL     time.Duration
	maxAttempts int
	backoff     time.Duration
	jobs        map[string]Job
}

// NewRunner creates a new Runner. nrApp may be nil.
func NewRunner(
	locks redis.LockStoreInterface,
	nrApp *newrelic.Application,
	audit service.AuditRecorder,
	log logrus.FieldLogger,
	cfg config.SchedulerConfig,
	jobs ...Job,
) *Runner {
	r := &Runner{
		locks:       locks,
		nrApp:       nrApp,
		audit:       audit,
		log:         log,
		lockTTL:     cfg.LockTTL,
		maxAttempts: max(1, cfg.MaxAttempts),
		backoff:     cfg.RetryBackoff,
		jobs:        make(map[string]Job, len(jobs)),
	}
	for _, job := range jobs {
		r.jobs[job.Name] = job
	}
	return r
}

// Jobs returns the registered jobs ordered by name.
func (r *Runner) Jobs() []Job {
	jobs := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs
}

// RunByName runs the job registered under name.
func (r *Runner) RunByName(ctx context.Context, name string) (Result, error) {
	job, ok := r.jobs[name]
	if !ok {
		return Result{Message: ErrUnknownJob.Error()}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return r.Run(ctx, job)
}

// Run acquires the job lock and executes the job, retrying failures with a
// linearly growing backoff.
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	log := r.log.WithField("job", job.Name)

	token, err := r.locks.AcquireJobLock(ctx, job.Name, r.lockTTL)
	if err != nil {
		err = fmt.Errorf("acquire job lock: %w", err)
		return Result{Message: err.Error()}, err
	}
	if token == "" {
		log.Info("job lock held elsewhere, skipping run")
		return Result{Message: ErrJobAlreadyRunning.Error()}, ErrJobAlreadyRunning
	}
	defer func() {
		// Release even when ctx was cancelled mid-run.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := r.locks.ReleaseJobLock(releaseCtx, job.Name, token); err != nil {
			log.WithError(err).Warn("failed to release job lock")
		}
	}()

	txn := r.nrApp.StartTransaction("job/" + job.Name)
	defer txn.End()
	ctx = newrelic.NewContext(ctx, txn)

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		data, err := job.Run(ctx)
		if err == nil {
			log.WithFields(logrus.Fields{
				"attempt":  attempt,
				"duration": time.Since(start).String(),
			}).Info("job finished")
			return Result{Success: true, Data: data}, nil
		}

		lastErr = err
		txn.NoticeError(err)
		log.WithError(err).WithField("attempt", attempt).Warn("job attempt failed")

		if attempt < r.maxAttempts {
			if err := sleep(ctx, time.Duration(attempt)*r.backoff); err != nil {
				lastErr = err
				break
			}
		}
	}

	r.audit.Record(ctx, runnerOrigin, service.AuditJobFailed, lastErr, map[string]any{"job": job.Name})
	return Result{Message: lastErr.Error()}, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
