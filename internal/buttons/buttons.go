// Package buttons parses the embedded navigation-button micro-DSL: a
// block of `key: label` lines mapping navigation intents to display
// labels for the host UI.
package buttons

import (
	"strings"

	"github.com/starford/jera/internal/navigate"
	"github.com/starford/jera/internal/slot"
)

// Button is one navigation button the host can render.
type Button struct {
	Key       string             `json:"key"`
	Label     string             `json:"label"`
	Period    slot.PeriodType    `json:"period"`
	Direction navigate.Direction `json:"direction"`
}

// known maps DSL keys to their navigation intent.
var known = map[string]struct {
	period    slot.PeriodType
	direction navigate.Direction
}{
	"today-daily":      {slot.Daily, navigate.Today},
	"next-daily":       {slot.Daily, navigate.Next},
	"previous-daily":   {slot.Daily, navigate.Previous},
	"today-monthly":    {slot.Monthly, navigate.Today},
	"next-monthly":     {slot.Monthly, navigate.Next},
	"previous-monthly": {slot.Monthly, navigate.Previous},
}

// Parse reads a `key: label` block and returns the recognized buttons
// in input order. Lines without exactly one colon are skipped;
// unrecognized keys are ignored. Malformed input never errors, it just
// yields fewer buttons.
func Parse(src string) []Button {
	var out []Button
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Count(line, ":") != 1 {
			continue
		}
		key, label, _ := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		label = strings.TrimSpace(label)
		intent, ok := known[key]
		if !ok || label == "" {
			continue
		}
		out = append(out, Button{
			Key:       key,
			Label:     label,
			Period:    intent.period,
			Direction: intent.direction,
		})
	}
	return out
}
