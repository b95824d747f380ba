// Package duration converts between free-form duration text and minute counts.
//
// Normalize accepts the notations people type into a duration field
// ("90", "1.5", "90m", "1h 30m", "1h", "1:30") and Format renders the
// canonical form ("45m", "2h", "1h 30m"). Both are pure functions.
package duration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Bounds of a time block duration, in minutes.
const (
	MinMinutes = 1
	MaxMinutes = 24 * 60
)

// Parse errors.
var (
	ErrUnrecognized = errors.New("couldn't understand that duration")
	ErrOutOfRange   = errors.New("duration must be between 1m and 24h")
)

// rule is one accepted notation. Patterns are anchored so a match always
// spans the whole input.
type rule struct {
	pattern *regexp.Regexp
	minutes func(groups []string) (int, bool)
}

// rules are tried in order and the first match wins. Plain integers must come
// before plain decimals: "2" means two minutes, never two hours.
var rules = []rule{
	{
		pattern: regexp.MustCompile(`^(\d+)$`),
		minutes: func(g []string) (int, bool) { return atoi(g[1]) },
	},
	{
		pattern: regexp.MustCompile(`^(\d+\.?\d*)$`),
		minutes: func(g []string) (int, bool) { return decimalHours(g[1]) },
	},
	{
		pattern: regexp.MustCompile(`^(\d+)m$`),
		minutes: func(g []string) (int, bool) { return atoi(g[1]) },
	},
	{
		// Any Unicode space may separate the parts: "1h\u00a030m" is 90.
		pattern: regexp.MustCompile(`^(\d+)h[\s\p{Zs}]*(\d+)m$`),
		minutes: func(g []string) (int, bool) { return hoursAndMinutes(g[1], g[2]) },
	},
	{
		pattern: regexp.MustCompile(`^(\d+)h$`),
		minutes: func(g []string) (int, bool) { return hoursAndMinutes(g[1], "0") },
	},
	{
		// The minutes group is not limited to 0-59: "1:90" is 150 minutes.
		pattern: regexp.MustCompile(`^(\d+):(\d+)$`),
		minutes: func(g []string) (int, bool) { return hoursAndMinutes(g[1], g[2]) },
	},
}

// Normalize converts duration text to minutes. Leading and trailing
// whitespace and letter case are ignored. ok is false when the text matches
// none of the accepted notations. The result is not range checked; use
// Validate before storing it.
func Normalize(text string) (minutes int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		groups := r.pattern.FindStringSubmatch(s)
		if groups == nil {
			continue
		}
		return r.minutes(groups)
	}
	return 0, false
}

// Format renders minutes in canonical form: "45m", "2h" or "1h 30m".
// It performs no range check; negative input is not supported.
func Format(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours, mins := minutes/60, minutes%60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// Validate reports whether minutes is a storable block duration.
func Validate(minutes int) bool {
	return minutes >= MinMinutes && minutes <= MaxMinutes
}

// Parse normalizes text and checks the result is in range.
// Returns ErrUnrecognized or ErrOutOfRange.
func Parse(text string) (int, error) {
	minutes, ok := Normalize(text)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognized, strings.TrimSpace(text))
	}
	if !Validate(minutes) {
		return 0, fmt.Errorf("%w, got %s", ErrOutOfRange, Format(minutes))
	}
	return minutes, nil
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// decimalHours rounds half away from zero: "0.025" (1.5m) is 2.
func decimalHours(s string) (int, bool) {
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	minutes := math.Round(hours * 60)
	if minutes > math.MaxInt32 {
		return 0, false
	}
	return int(minutes), true
}

func hoursAndMinutes(h, m string) (int, bool) {
	hours, ok := atoi(h)
	if !ok {
		return 0, false
	}
	mins, ok := atoi(m)
	if !ok {
		return 0, false
	}
	if hours > (math.MaxInt-mins)/60 {
		return 0, false
	}
	return hours*60 + mins, true
}
