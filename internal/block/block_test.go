package block

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/kronos/internal/duration"
)

func TestNew(t *testing.T) {
	b, err := New("  Write report ", "2025-01-15", "09:30", "1h 30m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.ID == "" {
		t.Error("expected ID to be generated")
	}
	if b.Title != "Write report" {
		t.Errorf("got title %q, want %q", b.Title, "Write report")
	}
	if b.DurationMinutes != 90 {
		t.Errorf("got duration %d, want 90", b.DurationMinutes)
	}
	wantStart := time.Date(2025, 1, 15, 9, 30, 0, 0, time.Local)
	if !b.Start.Equal(wantStart) {
		t.Errorf("got start %v, want %v", b.Start, wantStart)
	}
	wantEnd := time.Date(2025, 1, 15, 11, 0, 0, 0, time.Local)
	if !b.End.Equal(wantEnd) {
		t.Errorf("got end %v, want %v", b.End, wantEnd)
	}
	if b.DateKey() != "2025-01-15" {
		t.Errorf("got date key %q, want %q", b.DateKey(), "2025-01-15")
	}
	if b.StartClock() != "09:30" || b.EndClock() != "11:00" {
		t.Errorf("got %s-%s, want 09:30-11:00", b.StartClock(), b.EndClock())
	}
	if b.FormattedDuration() != "1h 30m" {
		t.Errorf("got formatted duration %q, want %q", b.FormattedDuration(), "1h 30m")
	}
	if b.CategoryID != nil {
		t.Error("expected no category")
	}
}

func TestNew_DurationNotations(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"45", 45},
		{"0.75", 45},
		{"45m", 45},
		{"0h45m", 45},
		{"2h", 120},
		{"0:45", 45},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b, err := New("Focus", "2025-01-15", "08:00", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.DurationMinutes != tt.want {
				t.Errorf("got %d minutes, want %d", b.DurationMinutes, tt.want)
			}
		})
	}
}

func TestNew_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		date     string
		start    string
		duration string
		wantErr  error
	}{
		{name: "empty title", title: " ", date: "2025-01-15", start: "09:00", duration: "1h", wantErr: ErrEmptyTitle},
		{name: "long title", title: strings.Repeat("x", MaxTitle+1), date: "2025-01-15", start: "09:00", duration: "1h", wantErr: ErrTitleTooLong},
		{name: "bad start", title: "Focus", date: "2025-01-15", start: "9:00", duration: "1h", wantErr: ErrInvalidTimeFormat},
		{name: "start out of range", title: "Focus", date: "2025-01-15", start: "25:00", duration: "1h", wantErr: ErrInvalidTimeFormat},
		{name: "unparseable duration", title: "Focus", date: "2025-01-15", start: "09:00", duration: "a while", wantErr: duration.ErrUnrecognized},
		{name: "zero duration", title: "Focus", date: "2025-01-15", start: "09:00", duration: "0", wantErr: duration.ErrOutOfRange},
		{name: "too long", title: "Focus", date: "2025-01-15", start: "09:00", duration: "25h", wantErr: duration.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.title, tt.date, tt.start, tt.duration)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTitleLengthCountsRunes(t *testing.T) {
	title := strings.Repeat("é", MaxTitle)
	if _, err := New(title, "2025-01-15", "09:00", "1h"); err != nil {
		t.Errorf("expected %d multibyte runes to be accepted: %v", MaxTitle, err)
	}
}

func TestEndClock_NextDay(t *testing.T) {
	b, err := New("Overnight", "2025-01-15", "23:00", "2h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := b.EndClock(); got != "01:00+1" {
		t.Errorf("got %q, want %q", got, "01:00+1")
	}
}

func TestResize(t *testing.T) {
	b, err := New("Focus", "2025-01-15", "09:00", "1h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := b.Resize(150); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.EndClock() != "11:30" {
		t.Errorf("got end %s, want 11:30", b.EndClock())
	}

	if err := b.Resize(0); !errors.Is(err, duration.ErrOutOfRange) {
		t.Errorf("got error %v, want %v", err, duration.ErrOutOfRange)
	}
	if b.DurationMinutes != 150 {
		t.Errorf("failed resize should not change duration, got %d", b.DurationMinutes)
	}
}

func TestRename(t *testing.T) {
	b, err := New("Focus", "2025-01-15", "09:00", "1h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Rename(""); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("got error %v, want %v", err, ErrEmptyTitle)
	}
	if err := b.Rename("Deep focus"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Title != "Deep focus" {
		t.Errorf("got title %q", b.Title)
	}
}

func TestMove(t *testing.T) {
	b, _ := New("Focus", "2025-01-15", "09:00", "45m")

	if err := b.Move("2025-01-17", "14:30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.DateKey() != "2025-01-17" {
		t.Errorf("got date %q, want 2025-01-17", b.DateKey())
	}
	if b.StartClock() != "14:30" || b.EndClock() != "15:15" {
		t.Errorf("got %s-%s, want 14:30-15:15", b.StartClock(), b.EndClock())
	}

	if err := b.Move("", "08:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.DateKey() != "2025-01-17" || b.StartClock() != "08:00" {
		t.Errorf("empty date should keep the day, got %s %s", b.DateKey(), b.StartClock())
	}

	if err := b.Move("", "8am"); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("got error %v, want %v", err, ErrInvalidTimeFormat)
	}
}

func TestOverlapsWith(t *testing.T) {
	mk := func(start, dur string) *TimeBlock {
		t.Helper()
		b, err := New("Block", "2025-01-15", start, dur)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return b
	}

	base := mk("09:00", "1h")
	tests := []struct {
		name  string
		other *TimeBlock
		want  bool
	}{
		{name: "nil", other: nil, want: false},
		{name: "adjacent after", other: mk("10:00", "30m"), want: false},
		{name: "adjacent before", other: mk("08:00", "1h"), want: false},
		{name: "partial", other: mk("09:30", "1h"), want: true},
		{name: "contained", other: mk("09:15", "15m"), want: true},
		{name: "containing", other: mk("08:00", "3h"), want: true},
		{name: "self", other: base, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.OverlapsWith(tt.other); got != tt.want {
				t.Errorf("OverlapsWith = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("Work", "Teal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Color != ColorTeal {
		t.Errorf("got color %q, want %q", c.Color, ColorTeal)
	}

	tests := []struct {
		name    string
		input   string
		color   string
		wantErr error
	}{
		{name: "empty", input: "", color: "blue", wantErr: ErrEmptyName},
		{name: "too long", input: strings.Repeat("a", MaxCategoryName+1), color: "blue", wantErr: ErrNameTooLong},
		{name: "bad color", input: "Work", color: "black", wantErr: ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCategory(tt.input, tt.color)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewTodo(t *testing.T) {
	todo, err := NewTodo("block-1", " Draft outline ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if todo.Text != "Draft outline" || todo.TimeBlockID != "block-1" || todo.Completed {
		t.Errorf("unexpected todo %+v", todo)
	}

	if _, err := NewTodo("block-1", ""); !errors.Is(err, ErrEmptyTodo) {
		t.Errorf("got error %v, want %v", err, ErrEmptyTodo)
	}
	if _, err := NewTodo("block-1", strings.Repeat("a", MaxTodoText+1)); !errors.Is(err, ErrTodoTooLong) {
		t.Errorf("got error %v, want %v", err, ErrTodoTooLong)
	}
}
