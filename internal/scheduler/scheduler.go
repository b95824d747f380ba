// Package scheduler finds free time on a day's calendar.
package scheduler

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/duration"
	"github.com/javiermolinar/kronos/internal/prefs"
)

// ErrNoSlot is returned when a block does not fit anywhere in the day.
var ErrNoSlot = errors.New("no free slot")

// Scheduler places blocks within the working day.
type Scheduler struct {
	dayStart int // minutes from midnight
	dayEnd   int // minutes from midnight
	snap     int // minutes
}

// Slot is a free interval in minutes from midnight.
type Slot struct {
	Start int
	End   int
}

// Minutes returns the length of the slot.
func (s Slot) Minutes() int {
	return s.End - s.Start
}

// String formats the slot as "HH:MM-HH:MM".
func (s Slot) String() string {
	return clock(s.Start) + "-" + clock(s.End)
}

// New creates a Scheduler for a day running from dayStart to dayEnd ("HH:MM").
// Start times are rounded up to multiples of snap minutes; a non-positive
// snap disables rounding.
func New(dayStart, dayEnd string, snap int) (*Scheduler, error) {
	start, err := block.ParseClock(dayStart)
	if err != nil {
		return nil, fmt.Errorf("day start: %w", err)
	}
	end, err := block.ParseClock(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("day end: %w", err)
	}
	if start >= end {
		return nil, prefs.ErrDayBounds
	}
	return &Scheduler{dayStart: start, dayEnd: end, snap: snap}, nil
}

// FromPreferences creates a Scheduler bounded by the user's day.
func FromPreferences(p *prefs.Preferences, snap int) (*Scheduler, error) {
	return New(p.StartOfDay, p.EndOfDay, snap)
}

// FreeSlots returns the gaps inside the working day on day that no block
// covers. Blocks from the previous evening that run past midnight count.
func (s *Scheduler) FreeSlots(day time.Time, blocks []*block.TimeBlock) []Slot {
	var slots []Slot
	cursor := s.dayStart
	for _, busy := range s.busy(day, blocks) {
		if busy.Start > cursor {
			slots = append(slots, Slot{Start: cursor, End: min(busy.Start, s.dayEnd)})
		}
		cursor = max(cursor, busy.End)
		if cursor >= s.dayEnd {
			return slots
		}
	}
	if cursor < s.dayEnd {
		slots = append(slots, Slot{Start: cursor, End: s.dayEnd})
	}
	return slots
}

// NextStart returns the earliest snapped start time ("HH:MM") on day where a
// block of the given length fits. Times before notBefore are skipped when it
// falls on day.
func (s *Scheduler) NextStart(day time.Time, blocks []*block.TimeBlock, minutes int, notBefore time.Time) (string, error) {
	if !duration.Validate(minutes) {
		return "", fmt.Errorf("%w, got %s", duration.ErrOutOfRange, duration.Format(minutes))
	}

	earliest := s.dayStart
	if sameDay(day, notBefore) {
		earliest = max(earliest, notBefore.Hour()*60+notBefore.Minute())
	}

	for _, slot := range s.FreeSlots(day, blocks) {
		start := s.roundUp(max(slot.Start, earliest))
		if start+minutes <= slot.End {
			return clock(start), nil
		}
	}
	return "", fmt.Errorf("%w for %s between %s and %s",
		ErrNoSlot, duration.Format(minutes), clock(s.dayStart), clock(s.dayEnd))
}

// busy returns the intervals blocks occupy on day, clipped to the calendar
// day and sorted by start.
func (s *Scheduler) busy(day time.Time, blocks []*block.TimeBlock) []Slot {
	var out []Slot
	for _, b := range blocks {
		start := wallMinutes(day, b.Start)
		end := wallMinutes(day, b.End)
		if end <= 0 || start >= 24*60 {
			continue
		}
		out = append(out, Slot{Start: max(start, 0), End: min(end, 24*60)})
	}
	slices.SortFunc(out, func(a, b Slot) int { return cmp.Compare(a.Start, b.Start) })
	return out
}

// roundUp rounds minutes up to the next multiple of the snap interval.
func (s *Scheduler) roundUp(minutes int) int {
	if s.snap <= 0 || minutes%s.snap == 0 {
		return minutes
	}
	return minutes + s.snap - minutes%s.snap
}

// wallMinutes returns the wall clock minutes of t counted from midnight of
// day, so times on the previous day are negative.
func wallMinutes(day, t time.Time) int {
	d0 := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	d1 := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d1.Sub(d0).Hours() / 24)
	return days*24*60 + t.Hour()*60 + t.Minute()
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
