// Package scheduler manages periodic background jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"noryx/internal/shared/logger"
)

// Job is one periodic batch task. Execute owns its own error handling per
// item; a returned error means the whole run failed.
type Job interface {
	Execute(ctx context.Context) error
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Execute(ctx context.Context) error { return f(ctx) }

// Manager runs the expiry scan and the mailing drain on one gocron scheduler.
// Singleton mode keeps a slow run from overlapping the next tick.
type Manager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.Mutex
}

func NewManager(log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		logger:    log.Named("scheduler"),
	}, nil
}

// RegisterExpiryScan schedules the subscription expiry scan. Hourly in
// production; the interval is configurable for development.
func (m *Manager) RegisterExpiryScan(job Job, interval time.Duration) error {
	return m.register("expiry-scan", job, interval)
}

// RegisterMailingDrain schedules the bulk mailing drain.
func (m *Manager) RegisterMailingDrain(job Job, interval time.Duration) error {
	return m.register("mailing-drain", job, interval)
}

// RegisterCleanupSweep schedules the sweep that deletes panel clients left
// behind by ended subscriptions.
func (m *Manager) RegisterCleanupSweep(job Job, interval time.Duration) error {
	return m.register("cleanup-sweep", job, interval)
}

func (m *Manager) register(name string, job Job, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			start := time.Now()
			if err := job.Execute(ctx); err != nil {
				m.logger.Errorw("scheduled job failed",
					"job", name, "duration", time.Since(start), "error", err)
				return
			}
			m.logger.Debugw("scheduled job finished",
				"job", name, "duration", time.Since(start))
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered scheduled job", "job", name, "interval", interval)
	return nil
}

func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Stop shuts the scheduler down and waits for running jobs.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Errorw("scheduler shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler stopped")
	return nil
}
