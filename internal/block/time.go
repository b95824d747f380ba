package block

import "time"

// ClockLayout is the HH:MM layout used for block start and end times.
const ClockLayout = "15:04"

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 {
		return 0, ErrInvalidTimeFormat
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return t.Hour()*60 + t.Minute(), nil
}

// OverlapMinutes returns how many minutes two blocks share.
func OverlapMinutes(a, b *TimeBlock) int {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Minutes())
}
