// Package settings holds the typed journal configuration shared by the
// reconciliation and navigation components. It is loaded and persisted
// by the host; the core treats it as read-only for the duration of a run.
package settings

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Backfill controls how far back missing slots are created.
type Backfill string

const (
	BackfillNone  Backfill = "none"
	BackfillMonth Backfill = "month"
	BackfillYear  Backfill = "year"
)

// FormatConfig holds the date-format token strings used to render
// folder and file names.
type FormatConfig struct {
	Year  string `yaml:"year" json:"year"`
	Month string `yaml:"month" json:"month"`
	Day   string `yaml:"day" json:"day"`
}

// Validate checks that each format carries at least one marker
// character for its unit, so a rendered path segment always encodes
// the date component it stands for.
func (c *FormatConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Year, validation.Required, markerRule('Y', "year")),
		validation.Field(&c.Month, validation.Required, markerRule('M', "month")),
		validation.Field(&c.Day, validation.Required, markerRule('D', "day")),
	)
}

func markerRule(marker rune, unit string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if !strings.ContainsRune(s, marker) {
			return fmt.Errorf("%s format must contain at least one %q token character", unit, marker)
		}
		return nil
	})
}

// PeriodPolicy configures one period type (daily or monthly).
// FolderName and DayOfMonth only apply to the monthly period.
type PeriodPolicy struct {
	Enabled      bool     `yaml:"enabled" json:"enabled"`
	TemplateFile string   `yaml:"template_file" json:"template_file"`
	ShouldNotify bool     `yaml:"should_notify" json:"should_notify"`
	Backfill     Backfill `yaml:"backfill" json:"backfill"`
	FolderName   string   `yaml:"folder_name,omitempty" json:"folder_name,omitempty"`
	DayOfMonth   int      `yaml:"day_of_month,omitempty" json:"day_of_month,omitempty"`
}

// Validate validates the policy. monthly toggles the monthly-only fields.
func (p *PeriodPolicy) Validate(monthly bool) error {
	if p.Backfill == "" {
		p.Backfill = BackfillNone
	}
	if err := validation.ValidateStruct(p,
		validation.Field(&p.Backfill, validation.In(BackfillNone, BackfillMonth, BackfillYear)),
	); err != nil {
		return err
	}
	if monthly {
		return validation.ValidateStruct(p,
			validation.Field(&p.FolderName, validation.Required),
			validation.Field(&p.DayOfMonth, validation.Min(1), validation.Max(31)),
		)
	}
	return nil
}

// TemplateDate configures substitution of a date token inside template
// bodies when a slot file is created.
type TemplateDate struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Token   string `yaml:"token" json:"token"`
	Format  string `yaml:"format" json:"format"`
}

// Validate validates the template date configuration.
func (t *TemplateDate) Validate() error {
	if !t.Enabled {
		return nil
	}
	return validation.ValidateStruct(t,
		validation.Field(&t.Token, validation.Required),
		validation.Field(&t.Format, validation.Required),
	)
}

// Settings is the full journal configuration.
type Settings struct {
	Timezone              string       `yaml:"timezone" json:"timezone"`
	RootFolder            string       `yaml:"root_folder" json:"root_folder"`
	Formats               FormatConfig `yaml:"formats" json:"formats"`
	UseTodayForLatestNote bool         `yaml:"use_today_for_latest_note" json:"use_today_for_latest_note"`
	TemplateDate          TemplateDate `yaml:"template_date" json:"template_date"`
	Daily                 PeriodPolicy `yaml:"daily" json:"daily"`
	Monthly               PeriodPolicy `yaml:"monthly" json:"monthly"`
	// Buttons is the raw `key: label` block for embedded navigation
	// buttons; parsed by the buttons package.
	Buttons string `yaml:"buttons" json:"buttons"`
}

// Validate validates the journal settings.
func (s *Settings) Validate() error {
	if err := s.Formats.Validate(); err != nil {
		return err
	}
	if err := s.Daily.Validate(false); err != nil {
		return fmt.Errorf("daily: %w", err)
	}
	if err := s.Monthly.Validate(true); err != nil {
		return fmt.Errorf("monthly: %w", err)
	}
	return s.TemplateDate.Validate()
}

// NewDefaultSettings returns journal settings with the stock layout:
// year/month/day for daily notes and a check-ins folder for monthly ones.
func NewDefaultSettings() Settings {
	return Settings{
		RootFolder: "Journal",
		Formats: FormatConfig{
			Year:  "YYYY",
			Month: "MM",
			Day:   "DD",
		},
		TemplateDate: TemplateDate{
			Token:  "{{date}}",
			Format: "YYYY-MM-DD",
		},
		Daily: PeriodPolicy{
			Backfill: BackfillNone,
		},
		Monthly: PeriodPolicy{
			Backfill:     BackfillNone,
			FolderName:   "check-ins",
			DayOfMonth:   1,
			ShouldNotify: true,
		},
	}
}
