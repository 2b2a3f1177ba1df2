// Package schedule re-runs reconciliation while the service stays up.
// An instance started before midnight must still fill the next day's
// slot, so a daily job fires shortly after the date rolls over, plus an
// optional coarse interval job as a safety net for clock suspensions.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Runner is the reconciliation entry point the scheduler drives.
type Runner interface {
	Run(ctx context.Context)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context)

func (f RunnerFunc) Run(ctx context.Context) { f(ctx) }

// Scheduler wraps a gocron scheduler around a Runner.
type Scheduler struct {
	scheduler gocron.Scheduler
	runner    Runner
	logger    *slog.Logger
}

// NewScheduler creates a scheduler in the given timezone; slot dates
// roll over at that zone's midnight, so the jobs must follow it.
func NewScheduler(runner Runner, loc *time.Location, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("schedule: create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, runner: runner, logger: logger}, nil
}

// ScheduleDailyRollover registers the job that fires just after
// midnight, when a new daily slot comes due.
func (s *Scheduler) ScheduleDailyRollover() error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 1, 0))),
		gocron.NewTask(s.execute, "rollover"),
		gocron.WithName("daily-rollover"),
	)
	if err != nil {
		return fmt.Errorf("schedule: daily rollover job: %w", err)
	}
	return nil
}

// ScheduleInterval registers a periodic catch-up job. A zero interval
// disables it.
func (s *Scheduler) ScheduleInterval(interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.execute, "interval"),
		gocron.WithName("interval-catchup"),
	)
	if err != nil {
		return fmt.Errorf("schedule: interval job: %w", err)
	}
	return nil
}

// Start begins executing the registered jobs.
func (s *Scheduler) Start() {
	s.logger.Info("schedule: started", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	s.logger.Info("schedule: stopping")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) execute(trigger string) {
	s.logger.Info("schedule: run triggered", slog.String("trigger", trigger))
	s.runner.Run(context.Background())
}
