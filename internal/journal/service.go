// Package journal exposes the core surface to hosts: Run executes the
// daily and monthly reconciliation passes, Resolve answers navigation
// requests. Period-level failures are reduced to notifications so no
// invocation is ever fatal to the host.
package journal

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/navigate"
	"github.com/starford/jera/internal/notify"
	"github.com/starford/jera/internal/reconcile"
	"github.com/starford/jera/internal/runlog"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/slot"
	"github.com/starford/jera/internal/storage"
)

// RunResult aggregates one reconciliation invocation.
type RunResult struct {
	RunID   string
	Reports []reconcile.Report
	// Errors holds period-level configuration errors; per-slot
	// failures live inside the reports.
	Errors []error
}

// Created returns the total number of slots the run created.
func (r RunResult) Created() int {
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.Created)
	}
	return n
}

// Failed returns the total number of per-slot failures.
func (r RunResult) Failed() int {
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.Failures)
	}
	return n
}

// Option configures a Service.
type Option func(*Service)

// WithNowFunc overrides the clock, primarily for tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLedger attaches a run ledger; each Run is recorded in it.
func WithLedger(db *runlog.DB) Option {
	return func(s *Service) { s.ledger = db }
}

// WithCreatedCallback registers a callback invoked for every slot a
// run creates, after the run finishes.
func WithCreatedCallback(cb func(period, path string)) Option {
	return func(s *Service) { s.onCreated = cb }
}

// Service coordinates reconciliation, navigation, and the run ledger.
type Service struct {
	store     storage.Provider
	st        settings.Settings
	engine    *reconcile.Engine
	resolver  *navigate.Resolver
	notifier  notify.Notifier
	logger    *slog.Logger
	ledger    *runlog.DB
	now       func() time.Time
	onCreated func(period, path string)
}

// NewService creates a Service.
func NewService(store storage.Provider, st settings.Settings, notifier notify.Notifier, logger *slog.Logger, opts ...Option) *Service {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:    store,
		st:       st,
		engine:   reconcile.New(store, st, notifier, logger),
		resolver: navigate.New(store, st, notifier, logger),
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return calendar.Now(st.Timezone) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the journal settings the service was built with.
func (s *Service) Settings() settings.Settings {
	return s.st
}

// Run executes the enabled reconciliation passes. Daily and monthly
// are independent: a configuration error in one is notified and does
// not block the other.
func (s *Service) Run(_ context.Context) RunResult {
	started := time.Now()
	now := s.now()
	res := RunResult{RunID: uuid.NewString()}

	if s.st.Daily.Enabled {
		rep, err := s.engine.Daily(now)
		if err != nil {
			s.notifier.Notify(err.Error())
			res.Errors = append(res.Errors, err)
		}
		res.Reports = append(res.Reports, rep)
	}
	if s.st.Monthly.Enabled {
		rep, err := s.engine.Monthly(now)
		if err != nil {
			s.notifier.Notify(err.Error())
			res.Errors = append(res.Errors, err)
		}
		res.Reports = append(res.Reports, rep)
	}

	s.logger.Info("journal: run finished",
		slog.String("run_id", res.RunID),
		slog.Int("created", res.Created()),
		slog.Int("failed", res.Failed()))

	if s.ledger != nil {
		var creations []runlog.Creation
		for _, rep := range res.Reports {
			for _, p := range rep.Created {
				creations = append(creations, runlog.Creation{Path: p, Period: string(rep.Period)})
			}
		}
		err := s.ledger.RecordRun(runlog.Run{
			ID:         res.RunID,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Created:    res.Created(),
			Failed:     res.Failed(),
		}, creations)
		if err != nil {
			s.logger.Warn("journal: record run failed", slog.String("error", err.Error()))
		}
	}

	if s.onCreated != nil {
		for _, rep := range res.Reports {
			for _, p := range rep.Created {
				s.onCreated(string(rep.Period), p)
			}
		}
	}

	return res
}

// Resolve answers a navigation request, lazily creating the target
// note when the period has a template configured. An empty path with a
// nil error is the normal "not found, no-create" outcome.
func (s *Service) Resolve(_ context.Context, period slot.PeriodType, dir navigate.Direction, anchorPath string) (string, error) {
	return s.resolver.Resolve(period, dir, anchorPath, s.now())
}

// ReadNote returns the raw content of a vault note. A missing file
// maps to apperr.ErrNotFound.
func (s *Service) ReadNote(_ context.Context, path string) ([]byte, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// History returns the most recent runs from the ledger.
func (s *Service) History(_ context.Context, limit int) ([]runlog.Run, error) {
	if s.ledger == nil {
		return nil, nil
	}
	return s.ledger.ListRuns(limit)
}

// RunCreations returns the slots one recorded run created.
func (s *Service) RunCreations(_ context.Context, runID string) ([]runlog.Creation, error) {
	if s.ledger == nil {
		return nil, nil
	}
	return s.ledger.RunCreations(runID)
}
