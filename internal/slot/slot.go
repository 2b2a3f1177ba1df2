// Package slot defines calendar slot identity: the period types, the
// canonical folder/file layout for a dated note, and the sort key that
// identifies a slot within its folder.
//
// The layout convention is fixed:
//
//	daily:   {root}/{year}/{month}/{day} -.md
//	monthly: {root}/{year}/{folder}/{month} -.md
package slot

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/starford/jera/internal/datefmt"
	"github.com/starford/jera/internal/settings"
)

// PeriodType distinguishes daily from monthly slots.
type PeriodType string

const (
	Daily   PeriodType = "daily"
	Monthly PeriodType = "monthly"
)

// ParsePeriod converts a user-supplied string into a PeriodType.
func ParsePeriod(s string) (PeriodType, error) {
	switch PeriodType(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily, nil
	case Monthly:
		return Monthly, nil
	default:
		return "", fmt.Errorf("slot: unknown period type %q", s)
	}
}

// FolderPath returns the vault-relative folder that holds the slot for
// date: {root}/{year}/{month} for daily, {root}/{year}/{folder} for monthly.
func FolderPath(period PeriodType, date time.Time, st settings.Settings) string {
	year := datefmt.Format(date, st.Formats.Year)
	if period == Monthly {
		return path.Join(st.RootFolder, year, st.Monthly.FolderName)
	}
	return path.Join(st.RootFolder, year, datefmt.Format(date, st.Formats.Month))
}

// FilePath returns the slot's vault-relative file path without the .md
// suffix, ending in the " -" separator that precedes any user-added title.
func FilePath(period PeriodType, date time.Time, st settings.Settings) string {
	return path.Join(FolderPath(period, date, st), SortKey(period, date, st)+" -")
}

// SortKey renders the slot's identity token for date: the day format
// for daily slots, the month format for monthly slots. Never the year.
func SortKey(period PeriodType, date time.Time, st settings.Settings) string {
	if period == Monthly {
		return datefmt.Format(date, st.Formats.Month)
	}
	return datefmt.Format(date, st.Formats.Day)
}

// SortKeyOf extracts the sort key from a file's base name: the
// substring before the first '-', trimmed of surrounding whitespace.
// "05 - fishing trip" and "05-fishing trip" both yield "05".
func SortKeyOf(basename string) string {
	key, _, _ := strings.Cut(strings.TrimSpace(basename), "-")
	return strings.TrimSpace(key)
}
