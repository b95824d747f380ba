// Package prefs holds the per-user scheduling preferences.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/duration"
)

// DefaultID is the primary key of the single preferences row.
const DefaultID = "default"

// Validation errors.
var (
	ErrInvalidTheme    = errors.New("theme must be 'light', 'dark' or 'auto'")
	ErrDayBounds       = errors.New("start_of_day must be before end_of_day")
	ErrInvalidDuration = errors.New("default block duration must be between 1m and 24h")
)

// Theme selects the app color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Preferences holds user settings persisted alongside the schedule.
type Preferences struct {
	ID                   string
	StartOfDay           string // "HH:MM"
	EndOfDay             string // "HH:MM"
	DefaultBlockDuration int    // minutes
	Theme                Theme
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Default returns the preferences a fresh store starts with.
func Default() *Preferences {
	return &Preferences{
		ID:                   DefaultID,
		StartOfDay:           "00:00",
		EndOfDay:             "23:59",
		DefaultBlockDuration: 60,
		Theme:                ThemeLight,
	}
}

// Validate checks every field.
func (p *Preferences) Validate() error {
	start, err := block.ParseClock(p.StartOfDay)
	if err != nil {
		return fmt.Errorf("start_of_day: %w", err)
	}
	end, err := block.ParseClock(p.EndOfDay)
	if err != nil {
		return fmt.Errorf("end_of_day: %w", err)
	}
	if start >= end {
		return ErrDayBounds
	}
	if !duration.Validate(p.DefaultBlockDuration) {
		return ErrInvalidDuration
	}
	switch p.Theme {
	case ThemeLight, ThemeDark, ThemeAuto:
	default:
		return ErrInvalidTheme
	}
	return nil
}

// Set updates one field by its storage name. The default block duration
// accepts any duration notation ("90", "1.5", "1h 30m").
// p is left unchanged when the result does not validate.
func (p *Preferences) Set(key, value string) error {
	next := *p
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "start_of_day":
		next.StartOfDay = value
	case "end_of_day":
		next.EndOfDay = value
	case "default_block_duration":
		minutes, err := duration.Parse(value)
		if err != nil {
			return err
		}
		next.DefaultBlockDuration = minutes
	case "theme":
		next.Theme = Theme(strings.ToLower(value))
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// WithinDay reports whether b lies inside the configured day bounds.
func (p *Preferences) WithinDay(b *block.TimeBlock) bool {
	start, err1 := block.ParseClock(p.StartOfDay)
	end, err2 := block.ParseClock(p.EndOfDay)
	if err1 != nil || err2 != nil {
		return true
	}
	if dateutil.TruncateToDay(b.End).After(dateutil.TruncateToDay(b.Start)) {
		return false
	}
	blockStart := b.Start.Hour()*60 + b.Start.Minute()
	blockEnd := b.End.Hour()*60 + b.End.Minute()
	return blockStart >= start && blockEnd <= end
}

// Store persists preferences.
type Store interface {
	GetPreferences(ctx context.Context) (*Preferences, error)
	UpdatePreferences(ctx context.Context, p *Preferences) error
}
