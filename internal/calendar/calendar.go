// Package calendar provides the pure date arithmetic behind slot
// enumeration and navigation. Every operation takes and returns plain
// time.Time values; nothing here touches the file store.
package calendar

import "time"

// Location resolves an IANA timezone name, falling back to the local
// zone when the name is empty or unknown.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}

// Now returns the current time in the given IANA timezone, or the
// best-effort local time when tz is empty or invalid.
func Now(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// MakeDate constructs a calendar date at midnight. Months are
// 1-indexed. Callers bound day by DaysInMonth; out-of-range values
// normalize the way time.Date does.
func MakeDate(year, month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// DaysInMonth returns the number of days in the given 1-indexed month.
func DaysInMonth(year, month int) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextDay returns d plus one calendar day.
func NextDay(d time.Time) time.Time {
	return d.AddDate(0, 0, 1)
}

// PreviousDay returns d minus one calendar day.
func PreviousDay(d time.Time) time.Time {
	return d.AddDate(0, 0, -1)
}

// NextMonth adds one month to d, preserving the day-of-month. When the
// target month is too short to hold that day, the result skips past it
// to the first day of the following month, so Jan 31 lands on Mar 1
// rather than drifting to Mar 3.
func NextMonth(d time.Time) time.Time {
	year, month, day := d.Date()
	target := clampedDate(year, int(month)+1, day, d)
	if target.Day() != day {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// PreviousMonth subtracts one month from d, preserving the
// day-of-month. When the target month is too short, the result skips
// past it in the direction of travel: Mar 31 lands on Jan 31.
func PreviousMonth(d time.Time) time.Time {
	year, month, day := d.Date()
	target := clampedDate(year, int(month)-1, day, d)
	if target.Day() != day {
		y, m, _ := target.Date()
		target = clampedDate(y, int(m)-1, day, d)
	}
	return target
}

// clampedDate builds a date in the (possibly out-of-range) month,
// clamping day to the month's length instead of letting time.Date
// normalize it into the following month. src supplies the location
// and time of day.
func clampedDate(year, month, day int, src time.Time) time.Time {
	// Normalize the month via a day-1 date first.
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, src.Location())
	y, m, _ := first.Date()
	if max := DaysInMonth(y, int(m)); day > max {
		day = max
	}
	hour, min, sec := src.Clock()
	return time.Date(y, m, day, hour, min, sec, src.Nanosecond(), src.Location())
}
