package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/duration"
	"github.com/javiermolinar/kronos/internal/prefs"
)

var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)

func mustBlock(t *testing.T, date, start, dur string) *block.TimeBlock {
	t.Helper()
	b, err := block.New("busy", date, start, dur)
	if err != nil {
		t.Fatalf("block.New(%s %s %s) failed: %v", date, start, dur, err)
	}
	return b
}

func mustScheduler(t *testing.T, start, end string, snap int) *Scheduler {
	t.Helper()
	s, err := New(start, end, snap)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew_InvalidBounds(t *testing.T) {
	if _, err := New("17:00", "09:00", 15); !errors.Is(err, prefs.ErrDayBounds) {
		t.Errorf("expected ErrDayBounds, got %v", err)
	}
	if _, err := New("9", "17:00", 15); !errors.Is(err, block.ErrInvalidTimeFormat) {
		t.Errorf("expected ErrInvalidTimeFormat, got %v", err)
	}
}

func TestFromPreferences(t *testing.T) {
	s, err := FromPreferences(prefs.Default(), 15)
	if err != nil {
		t.Fatalf("FromPreferences failed: %v", err)
	}
	slots := s.FreeSlots(monday, nil)
	if len(slots) != 1 || slots[0].String() != "00:00-23:59" {
		t.Errorf("expected the whole day free, got %v", slots)
	}
}

func TestFreeSlots(t *testing.T) {
	s := mustScheduler(t, "09:00", "17:00", 15)
	blocks := []*block.TimeBlock{
		mustBlock(t, "2025-01-06", "10:30", "1h 30m"),
		mustBlock(t, "2025-01-06", "09:00", "1h"),
		mustBlock(t, "2025-01-06", "18:00", "1h"), // after hours
		mustBlock(t, "2025-01-07", "09:00", "8h"), // another day
	}

	slots := s.FreeSlots(monday, blocks)
	want := []string{"10:00-10:30", "12:00-17:00"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), slots)
	}
	for i, w := range want {
		if slots[i].String() != w {
			t.Errorf("slot %d: got %s, want %s", i, slots[i], w)
		}
	}
	if slots[0].Minutes() != 30 {
		t.Errorf("Minutes: got %d, want 30", slots[0].Minutes())
	}
}

func TestFreeSlots_OvernightBlock(t *testing.T) {
	s := mustScheduler(t, "09:00", "17:00", 15)
	blocks := []*block.TimeBlock{mustBlock(t, "2025-01-05", "22:00", "12h")}

	slots := s.FreeSlots(monday, blocks)
	if len(slots) != 1 || slots[0].String() != "10:00-17:00" {
		t.Errorf("expected 10:00-17:00, got %v", slots)
	}
}

func TestFreeSlots_FullDay(t *testing.T) {
	s := mustScheduler(t, "09:00", "17:00", 15)
	blocks := []*block.TimeBlock{mustBlock(t, "2025-01-06", "08:00", "10h")}

	if slots := s.FreeSlots(monday, blocks); len(slots) != 0 {
		t.Errorf("expected no free slots, got %v", slots)
	}
}

func TestNextStart(t *testing.T) {
	s := mustScheduler(t, "09:00", "17:00", 15)
	blocks := []*block.TimeBlock{
		mustBlock(t, "2025-01-06", "09:00", "1h"),
		mustBlock(t, "2025-01-06", "10:30", "1h 30m"),
	}
	elsewhere := time.Date(2025, 1, 3, 15, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		minutes   int
		notBefore time.Time
		want      string
	}{
		{"fits first gap", 30, elsewhere, "10:00"},
		{"skips short gap", 45, elsewhere, "12:00"},
		{"not before rounds up", 60, time.Date(2025, 1, 6, 12, 7, 0, 0, time.Local), "12:15"},
		{"not before on grid", 60, time.Date(2025, 1, 6, 13, 30, 0, 0, time.Local), "13:30"},
		{"fits up to day end", 300, elsewhere, "12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.NextStart(monday, blocks, tt.minutes, tt.notBefore)
			if err != nil {
				t.Fatalf("NextStart failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextStart_NoSnap(t *testing.T) {
	s := mustScheduler(t, "09:00", "17:00", 0)

	got, err := s.NextStart(monday, nil, 30, time.Date(2025, 1, 6, 12, 7, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("NextStart failed: %v", err)
	}
	if got != "12:07" {
		t.Errorf("got %s, want 12:07", got)
	}
}

func TestNextStart_Errors(t *testing.T) {
	s := mustScheduler(t, "09:00", "17:00", 15)
	blocks := []*block.TimeBlock{mustBlock(t, "2025-01-06", "09:00", "7h 30m")}

	if _, err := s.NextStart(monday, blocks, 45, time.Time{}); !errors.Is(err, ErrNoSlot) {
		t.Errorf("expected ErrNoSlot, got %v", err)
	}
	if _, err := s.NextStart(monday, nil, 60, time.Date(2025, 1, 6, 16, 30, 0, 0, time.Local)); !errors.Is(err, ErrNoSlot) {
		t.Errorf("expected ErrNoSlot late in the day, got %v", err)
	}
	if _, err := s.NextStart(monday, nil, 0, time.Time{}); !errors.Is(err, duration.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}
