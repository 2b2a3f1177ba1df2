// Package datefmt renders and parses dates using the moment-style
// format tokens the journal settings are written in (YYYY, MM, DD,
// MMMM, ...). Tokens are translated to Go reference layouts once and
// the standard library does the rest.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

// tokens maps format tokens to Go reference-time layouts. Order
// matters: longer tokens must be tried before their prefixes.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"DD", "02"},
	{"D", "2"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"HH", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"ss", "05"},
	{"A", "PM"},
	{"a", "pm"},
}

// Layout translates a token format string into a Go time layout.
// Text wrapped in square brackets is copied through verbatim; any
// character that is not part of a token is treated as a literal.
func Layout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i:], ']')
			if end < 0 {
				b.WriteString(format[i+1:])
				break
			}
			b.WriteString(format[i+1 : i+end])
			i += end + 1
			continue
		}
		matched := false
		for _, tk := range tokens {
			if strings.HasPrefix(format[i:], tk.token) {
				b.WriteString(tk.layout)
				i += len(tk.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}

// Format renders t using a token format string.
func Format(t time.Time, format string) string {
	return t.Format(Layout(format))
}

// Parse interprets value according to a token format string, in loc.
func Parse(value, format string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout(format), value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("datefmt: parse %q as %q: %w", value, format, err)
	}
	return t, nil
}
