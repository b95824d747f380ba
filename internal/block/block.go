// Package block defines the scheduling domain: time blocks, the todos
// attached to them and the categories both are grouped under.
package block

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/duration"
)

// Field limits enforced before anything reaches the store.
const (
	MaxCategoryName = 20
	MaxTitle        = 100
	MaxTodoText     = 500
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrTitleTooLong      = fmt.Errorf("title cannot exceed %d characters", MaxTitle)
	ErrEmptyName         = errors.New("category name cannot be empty")
	ErrNameTooLong       = fmt.Errorf("category name cannot exceed %d characters", MaxCategoryName)
	ErrInvalidColor      = errors.New("color must be one of blue, green, red, purple, yellow, orange, pink, teal")
	ErrEmptyTodo         = errors.New("todo text cannot be empty")
	ErrTodoTooLong       = fmt.Errorf("todo text cannot exceed %d characters", MaxTodoText)
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
)

// Domain errors.
var (
	ErrTimeBlockOverlap = errors.New("time block overlaps with existing block")
	ErrNotFound         = errors.New("not found")
	ErrAmbiguousID      = errors.New("id prefix matches more than one record")
)

// Color is the display color of a category.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
	ColorTeal   Color = "teal"
)

// Colors lists every valid color in palette order.
var Colors = []Color{
	ColorBlue, ColorGreen, ColorRed, ColorPurple,
	ColorYellow, ColorOrange, ColorPink, ColorTeal,
}

// Valid returns true if c is a known color.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Category groups time blocks and todos.
type Category struct {
	ID        string
	Name      string
	Color     Color
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a Category with validation.
func NewCategory(name, color string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxCategoryName {
		return nil, ErrNameTooLong
	}
	c := Color(strings.ToLower(strings.TrimSpace(color)))
	if !c.Valid() {
		return nil, ErrInvalidColor
	}

	now := time.Now()
	return &Category{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     c,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TimeBlock is a scheduled interval on the calendar.
type TimeBlock struct {
	ID              string
	Title           string
	CategoryID      *string // nil means uncategorized
	Date            time.Time
	Start           time.Time
	End             time.Time
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// New creates a TimeBlock with validation.
// date can be empty (defaults to today) or in YYYY-MM-DD format.
// start must be in HH:MM format. durationText accepts every notation
// understood by duration.Normalize and must be between 1m and 24h.
func New(title, date, start, durationText string) (*TimeBlock, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	day, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}

	startMinutes, err := ParseClock(start)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}

	minutes, err := duration.Parse(durationText)
	if err != nil {
		return nil, err
	}

	// Start is wall clock time on the local calendar day.
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	begin := time.Date(day.Year(), day.Month(), day.Day(), startMinutes/60, startMinutes%60, 0, 0, time.Local)
	now := time.Now()
	return &TimeBlock{
		ID:              uuid.NewString(),
		Title:           title,
		Date:            day,
		Start:           begin,
		End:             begin.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitle {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// Resize changes the block duration, keeping its start.
func (b *TimeBlock) Resize(minutes int) error {
	if !duration.Validate(minutes) {
		return fmt.Errorf("%w, got %s", duration.ErrOutOfRange, duration.Format(minutes))
	}
	b.DurationMinutes = minutes
	b.End = b.Start.Add(time.Duration(minutes) * time.Minute)
	b.UpdatedAt = time.Now()
	return nil
}

// Move reschedules the block to start at start on date, keeping its duration.
// An empty date keeps the current day.
func (b *TimeBlock) Move(date, start string) error {
	day := b.Date
	if date != "" {
		d, err := dateutil.ParseDate(date)
		if err != nil {
			return err
		}
		day = d
	}
	startMinutes, err := ParseClock(start)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}

	b.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	b.Start = time.Date(day.Year(), day.Month(), day.Day(), startMinutes/60, startMinutes%60, 0, 0, time.Local)
	b.End = b.Start.Add(time.Duration(b.DurationMinutes) * time.Minute)
	b.UpdatedAt = time.Now()
	return nil
}

// Rename changes the block title.
func (b *TimeBlock) Rename(title string) error {
	title, err := validateTitle(title)
	if err != nil {
		return err
	}
	b.Title = title
	b.UpdatedAt = time.Now()
	return nil
}

// DateKey returns the block's day in YYYY-MM-DD format.
func (b *TimeBlock) DateKey() string {
	return dateutil.FormatForDB(b.Date)
}

// StartClock returns the start time in HH:MM format.
func (b *TimeBlock) StartClock() string {
	return b.Start.Format(ClockLayout)
}

// EndClock returns the end time in HH:MM format. Blocks ending on a later
// day are suffixed with "+1".
func (b *TimeBlock) EndClock() string {
	end := b.End.Format(ClockLayout)
	if dateutil.TruncateToDay(b.End).After(dateutil.TruncateToDay(b.Start)) {
		end += "+1"
	}
	return end
}

// FormattedDuration returns the duration in canonical form, e.g. "1h 30m".
func (b *TimeBlock) FormattedDuration() string {
	return duration.Format(b.DurationMinutes)
}

// OverlapsWith returns true if the two blocks share any instant.
// Adjacent blocks (one ends when the other starts) do not overlap.
func (b *TimeBlock) OverlapsWith(other *TimeBlock) bool {
	if other == nil || other.ID == b.ID {
		return false
	}
	return b.Start.Before(other.End) && other.Start.Before(b.End)
}

// Todo is a checklist item attached to a time block.
type Todo struct {
	ID          string
	Text        string
	Completed   bool
	TimeBlockID string
	CategoryID  *string
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTodo creates a Todo for the given block with validation.
// The order is assigned by the repository on insert.
func NewTodo(timeBlockID, text string) (*Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTodo
	}
	if utf8.RuneCountInString(text) > MaxTodoText {
		return nil, ErrTodoTooLong
	}

	now := time.Now()
	return &Todo{
		ID:          uuid.NewString(),
		Text:        text,
		TimeBlockID: timeBlockID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
