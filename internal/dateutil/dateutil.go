// Package dateutil provides date parsing, formatting and calendar arithmetic.
//
// Days are represented as time.Time values at midnight. Stored day keys use
// DBLayout.
package dateutil

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Layouts used for storage and display.
const (
	DBLayout      = "2006-01-02"
	DisplayLayout = "Monday, Jan 2"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be YYYY-MM-DD, today, yesterday, tomorrow, a weekday or +N/-N days")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// dayOffsets are the keywords that name a fixed distance from today.
var dayOffsets = map[string]int{
	"":          0,
	"today":     0,
	"yesterday": -1,
	"tomorrow":  1,
	"next-week": 7,
	"last-week": -7,
}

// DateRange is an inclusive span of days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of days in the range, counting both ends.
func (r DateRange) Days() int {
	return int(math.Round(r.End.Sub(r.Start).Hours()/24)) + 1
}

// NewDateRange parses an inclusive range of YYYY-MM-DD days.
// An empty startDate means today and an empty endDate means startDate.
func NewDateRange(startDate, endDate string) (*DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end := start
	if endDate != "" {
		if end, err = ParseDate(endDate); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}
	return &DateRange{Start: start, End: end}, nil
}

// ParseDate parses a YYYY-MM-DD day as local midnight. An empty string is
// today.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.ParseInLocation(DBLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseRelativeDate resolves a day relative to the day of relativeTo. The
// result is midnight in relativeTo's location.
// Accepted forms, case-insensitive:
//
//	"" or "today", "yesterday", "tomorrow"
//	"next-week", "last-week"     seven days ahead or back
//	"+3", "-2"                   day offsets
//	"friday" or "next-friday"    the next Friday after today
//	"last-friday"                the last Friday before today
//	"2025-01-15"                 an absolute day, past or future
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	if days, ok := dayOffsets[input]; ok {
		return today.AddDate(0, 0, days), nil
	}

	if input[0] == '+' || input[0] == '-' {
		days, err := strconv.Atoi(input)
		if err != nil {
			return time.Time{}, ErrInvalidDateFormat
		}
		return today.AddDate(0, 0, days), nil
	}

	name, back := input, false
	switch {
	case strings.HasPrefix(input, "next-"):
		name = strings.TrimPrefix(input, "next-")
	case strings.HasPrefix(input, "last-"):
		name, back = strings.TrimPrefix(input, "last-"), true
	}
	if wd, ok := weekdays[name]; ok {
		if back {
			return previousWeekday(today, wd), nil
		}
		return nextWeekday(today, wd), nil
	}
	if name != input {
		return time.Time{}, ErrInvalidDateFormat
	}

	t, err := time.ParseInLocation(DBLayout, input, relativeTo.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// nextWeekday is strictly after today: on a Monday, "monday" is a week out.
func nextWeekday(today time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(today.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

func previousWeekday(today time.Time, wd time.Weekday) time.Time {
	days := (int(today.Weekday()) - int(wd) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, -days)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	sinceMonday := (int(t.Weekday()) + 6) % 7
	monday = t.AddDate(0, 0, -sinceMonday)
	return monday, monday.AddDate(0, 0, 6)
}

// TruncateToDay returns midnight of t's day in t's location.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatForDB formats t as a YYYY-MM-DD day key.
func FormatForDB(t time.Time) string {
	return t.Format(DBLayout)
}

// FormatForDisplay formats t for headings, e.g. "Monday, Feb 19".
func FormatForDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

func NextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

func PreviousDay(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

// SnapToInterval rounds the minute of t to the nearest multiple of interval
// and clears seconds, which are ignored when rounding. On a 15 minute grid
// 09:07 snaps to 09:00, 09:08 to 09:15 and 09:53 to 10:00. A non-positive
// interval only clears seconds.
func SnapToInterval(t time.Time, interval int) time.Time {
	base := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	if interval <= 0 {
		return base.Add(time.Duration(t.Minute()) * time.Minute)
	}
	snapped := int(math.Round(float64(t.Minute())/float64(interval))) * interval
	return base.Add(time.Duration(snapped) * time.Minute)
}
