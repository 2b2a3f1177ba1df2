// Package navigate implements link resolution: turning a navigation
// intent (daily/monthly × previous/next/today) plus an optional anchor
// file into the path of the target note, lazily creating it when a
// template is configured.
package navigate

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/datefmt"
	"github.com/starford/jera/internal/materialize"
	"github.com/starford/jera/internal/notify"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/slot"
	"github.com/starford/jera/internal/slotindex"
	"github.com/starford/jera/internal/storage"
)

// Direction is the navigation intent relative to the anchor.
type Direction string

const (
	Previous Direction = "previous"
	Next     Direction = "next"
	Today    Direction = "today"
)

// ParseDirection converts a user-supplied string into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Previous:
		return Previous, nil
	case Next:
		return Next, nil
	case Today:
		return Today, nil
	default:
		return "", fmt.Errorf("navigate: unknown direction %q", s)
	}
}

// Resolver resolves navigation intents against the vault.
type Resolver struct {
	store    storage.Provider
	st       settings.Settings
	mat      *materialize.Materializer
	notifier notify.Notifier
	logger   *slog.Logger
}

// New creates a Resolver. A nil notifier discards notices.
func New(store storage.Provider, st settings.Settings, notifier notify.Notifier, logger *slog.Logger) *Resolver {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:    store,
		st:       st,
		mat:      materialize.New(store, st),
		notifier: notifier,
		logger:   logger,
	}
}

// Resolve returns the vault path of the note the intent points at. A
// missing note is created on demand when the period has a template
// configured; otherwise an empty path is returned after a "not found"
// notice. Anchor paths that do not decompose into a valid date fall
// back to now.
func (r *Resolver) Resolve(period slot.PeriodType, dir Direction, anchorPath string, now time.Time) (string, error) {
	anchor := r.anchorDate(period, anchorPath, now)

	var target time.Time
	switch dir {
	case Today:
		target = now
	case Next:
		if period == slot.Monthly {
			target = calendar.NextMonth(anchor)
		} else {
			target = calendar.NextDay(anchor)
		}
	case Previous:
		if period == slot.Monthly {
			target = calendar.PreviousMonth(anchor)
		} else {
			target = calendar.PreviousDay(anchor)
		}
	default:
		return "", fmt.Errorf("navigate: unknown direction %q", dir)
	}

	folder := slot.FolderPath(period, target, r.st)
	var records []slotindex.Record
	var err error
	if period == slot.Monthly {
		records, err = slotindex.ListMonthly(r.store, folder, r.st.Monthly.FolderName)
	} else {
		records, err = slotindex.List(r.store, folder)
	}
	if err != nil {
		return "", err
	}

	key := slot.SortKey(period, target, r.st)
	if rec, ok := slotindex.Find(records, key); ok {
		return rec.Path, nil
	}

	policy := r.st.Daily
	if period == slot.Monthly {
		policy = r.st.Monthly
	}
	// Template presence is the creation gate: without one, absence is
	// only reported, never repaired.
	if policy.TemplateFile == "" {
		r.notifier.Notify(fmt.Sprintf("no %s note for %s in %s", period, key, folder))
		return "", nil
	}

	tmpl, err := materialize.LoadTemplate(r.store, policy)
	if err != nil {
		r.notifier.Notify(err.Error())
		return "", err
	}

	targetPath := slot.FilePath(period, target, r.st)
	path, created, err := r.mat.Materialize(materialize.Request{
		TargetPath: targetPath,
		Nominal:    target,
		Effective:  target,
		Template:   tmpl,
	}, records)
	if err != nil {
		r.notifier.Notify(fmt.Sprintf("failed to create %s: %v", targetPath, err))
		return "", err
	}
	if created {
		r.notifier.Notify(fmt.Sprintf("created %s note %s", period, path))
	}
	return path, nil
}

// anchorDate derives the starting date from the anchor file's trailing
// path segments: year/month/day for daily anchors, year/folder/month
// for monthly ones. Any parse failure means "no anchor" and yields now.
func (r *Resolver) anchorDate(period slot.PeriodType, anchorPath string, now time.Time) time.Time {
	if anchorPath == "" {
		return now
	}
	segments := strings.Split(strings.Trim(anchorPath, "/"), "/")
	if len(segments) < 3 {
		return now
	}
	base := strings.TrimSuffix(segments[len(segments)-1], ".md")
	token := slot.SortKeyOf(base)
	year := segments[len(segments)-3]
	loc := now.Location()

	f := r.st.Formats
	switch period {
	case slot.Monthly:
		parsed, err := datefmt.Parse(year+"|"+token, f.Year+"|"+f.Month, loc)
		if err != nil {
			r.logger.Debug("navigate: anchor parse failed", slog.String("anchor", anchorPath))
			return now
		}
		day := r.st.Monthly.DayOfMonth
		if max := calendar.DaysInMonth(parsed.Year(), int(parsed.Month())); day > max {
			day = max
		}
		return calendar.MakeDate(parsed.Year(), int(parsed.Month()), day, loc)
	default:
		month := segments[len(segments)-2]
		parsed, err := datefmt.Parse(year+"|"+month+"|"+token, f.Year+"|"+f.Month+"|"+f.Day, loc)
		if err != nil {
			r.logger.Debug("navigate: anchor parse failed", slog.String("anchor", anchorPath))
			return now
		}
		return parsed
	}
}
