// Package reconcile implements the temporal reconciliation engine: it
// walks the backfill window for each period type, diffs expected slots
// against the files already in the vault, and materializes the missing
// ones. Failures are collected per slot and never abort the walk, so a
// run interrupted halfway is simply finished by the next one.
package reconcile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/materialize"
	"github.com/starford/jera/internal/notify"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/slot"
	"github.com/starford/jera/internal/slotindex"
	"github.com/starford/jera/internal/storage"
)

// Failure records one slot that could not be created.
type Failure struct {
	Path string
	Err  error
}

// Report aggregates the outcome of reconciling one period type.
type Report struct {
	Period   slot.PeriodType
	Created  []string
	Failures []Failure
}

// Engine reconciles expected calendar slots against the vault.
type Engine struct {
	store    storage.Provider
	st       settings.Settings
	mat      *materialize.Materializer
	notifier notify.Notifier
	logger   *slog.Logger
}

// New creates an Engine. A nil notifier discards notices.
func New(store storage.Provider, st settings.Settings, notifier notify.Notifier, logger *slog.Logger) *Engine {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    store,
		st:       st,
		mat:      materialize.New(store, st),
		notifier: notifier,
		logger:   logger,
	}
}

// Daily reconciles daily slots for the year containing now. The walk
// covers every month up to the current one, bounded by the backfill
// policy, and never emits a slot dated after now. The returned error
// is period-level (an unreadable template); per-slot errors land in
// the report.
func (e *Engine) Daily(now time.Time) (Report, error) {
	rep := Report{Period: slot.Daily}

	tmpl, err := e.loadTemplate(e.st.Daily)
	if err != nil {
		return rep, fmt.Errorf("daily notes: %w", err)
	}

	loc := now.Location()
	currentMonth := int(now.Month())

	for month := 1; month <= 12; month++ {
		// Never backfill into the future.
		if month > currentMonth {
			continue
		}
		if e.st.Daily.Backfill != settings.BackfillYear && month != currentMonth {
			continue
		}

		first := calendar.MakeDate(now.Year(), month, 1, loc)
		folder := slot.FolderPath(slot.Daily, first, e.st)
		records, listErr := slotindex.List(e.store, folder)
		if listErr != nil {
			rep.Failures = append(rep.Failures, Failure{Path: folder, Err: listErr})
			continue
		}

		days := calendar.DaysInMonth(now.Year(), month)
		for day := 1; day <= days; day++ {
			if month == currentMonth && day > now.Day() {
				continue
			}
			date := calendar.MakeDate(now.Year(), month, day, loc)
			if _, ok := slotindex.Find(records, slot.SortKey(slot.Daily, date, e.st)); ok {
				continue
			}
			if e.st.Daily.Backfill == settings.BackfillNone && day < now.Day() {
				continue
			}

			effective := date
			if e.st.UseTodayForLatestNote && month == currentMonth && day == now.Day() {
				// One minute ahead keeps reminder integrations keyed
				// on future timestamps working; slot identity still
				// comes from the nominal date.
				effective = now.Add(time.Minute)
			}

			e.create(&rep, materialize.Request{
				TargetPath: slot.FilePath(slot.Daily, date, e.st),
				Nominal:    date,
				Effective:  effective,
				Template:   tmpl,
			}, records, e.st.Daily.ShouldNotify)
		}
	}

	return rep, nil
}

// Monthly reconciles monthly slots for the year containing now. The
// backfill policy only distinguishes year-wide backfill from
// current-month-only; a slot in the current month is skipped while its
// day-of-month has not been reached yet.
func (e *Engine) Monthly(now time.Time) (Report, error) {
	rep := Report{Period: slot.Monthly}

	tmpl, err := e.loadTemplate(e.st.Monthly)
	if err != nil {
		return rep, fmt.Errorf("monthly notes: %w", err)
	}

	loc := now.Location()
	currentMonth := int(now.Month())

	folder := slot.FolderPath(slot.Monthly, now, e.st)
	records, listErr := slotindex.ListMonthly(e.store, folder, e.st.Monthly.FolderName)
	if listErr != nil {
		rep.Failures = append(rep.Failures, Failure{Path: folder, Err: listErr})
		return rep, nil
	}

	for month := 1; month <= 12; month++ {
		if month > currentMonth {
			continue
		}
		if e.st.Monthly.Backfill != settings.BackfillYear && month != currentMonth {
			continue
		}

		day := e.st.Monthly.DayOfMonth
		if max := calendar.DaysInMonth(now.Year(), month); day > max {
			day = max
		}
		date := calendar.MakeDate(now.Year(), month, day, loc)

		if _, ok := slotindex.Find(records, slot.SortKey(slot.Monthly, date, e.st)); ok {
			continue
		}
		// The current month's note is not due before its day-of-month.
		if month == currentMonth && now.Day() < e.st.Monthly.DayOfMonth {
			continue
		}

		effective := date
		if e.st.UseTodayForLatestNote && month == currentMonth {
			effective = now.Add(time.Minute)
		}

		e.create(&rep, materialize.Request{
			TargetPath: slot.FilePath(slot.Monthly, date, e.st),
			Nominal:    date,
			Effective:  effective,
			Template:   tmpl,
		}, records, e.st.Monthly.ShouldNotify)
	}

	return rep, nil
}

// create materializes one request and folds the outcome into rep.
func (e *Engine) create(rep *Report, req materialize.Request, records []slotindex.Record, shouldNotify bool) {
	path, created, err := e.mat.Materialize(req, records)
	if err != nil {
		rep.Failures = append(rep.Failures, Failure{Path: req.TargetPath, Err: err})
		e.notifier.Notify(fmt.Sprintf("failed to create %s: %v", req.TargetPath, err))
		e.logger.Warn("reconcile: create failed",
			slog.String("path", req.TargetPath),
			slog.String("error", err.Error()))
		return
	}
	if !created {
		return
	}
	rep.Created = append(rep.Created, path)
	e.logger.Debug("reconcile: created", slog.String("path", path))
	if shouldNotify {
		e.notifier.Notify(fmt.Sprintf("created %s note %s", rep.Period, path))
	}
}

// loadTemplate reads the policy's template file. An empty template
// path means slots are created with empty bodies; a configured but
// missing template is a period-level configuration error.
func (e *Engine) loadTemplate(policy settings.PeriodPolicy) (string, error) {
	return materialize.LoadTemplate(e.store, policy)
}
