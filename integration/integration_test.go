package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/db"
	"github.com/javiermolinar/kronos/internal/duration"
	"github.com/javiermolinar/kronos/internal/goal"
	"github.com/javiermolinar/kronos/internal/summary"
)

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// mustParseDate parses a date string or fails the test.
func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", s, err)
	}
	return date
}

// createBlock is a helper to create and insert a time block.
func createBlock(t *testing.T, repo *db.SQLite, title, date, start, dur string) *block.TimeBlock {
	t.Helper()
	b, err := block.New(title, date, start, dur)
	if err != nil {
		t.Fatalf("failed to create block: %v", err)
	}
	if err := repo.CreateBlock(context.Background(), b); err != nil {
		t.Fatalf("failed to insert block: %v", err)
	}
	return b
}

// createTodo is a helper to create and insert a todo.
func createTodo(t *testing.T, repo *db.SQLite, blockID, text string, done bool) *block.Todo {
	t.Helper()
	td, err := block.NewTodo(blockID, text)
	if err != nil {
		t.Fatalf("failed to create todo: %v", err)
	}
	td.Completed = done
	if err := repo.CreateTodo(context.Background(), td); err != nil {
		t.Fatalf("failed to insert todo: %v", err)
	}
	return td
}

func TestBlockDurationNotations(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	tests := []struct {
		text  string
		start string
		want  int
	}{
		{"90", "06:00", 90},
		{"1.5", "08:00", 90},
		{"1h 30m", "10:00", 90},
		{"1:30", "12:00", 90},
		{"2h", "14:00", 120},
		{"45m", "17:00", 45},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b := createBlock(t, repo, "Block "+tt.text, "2025-03-03", tt.start, tt.text)

			got, err := repo.GetBlock(ctx, b.ID)
			if err != nil {
				t.Fatalf("GetBlock failed: %v", err)
			}
			if got.DurationMinutes != tt.want {
				t.Errorf("DurationMinutes: got %d, want %d", got.DurationMinutes, tt.want)
			}
			if got.FormattedDuration() != duration.Format(tt.want) {
				t.Errorf("FormattedDuration: got %q, want %q", got.FormattedDuration(), duration.Format(tt.want))
			}
		})
	}
}

func TestBlockDuration_Rejected(t *testing.T) {
	tests := []struct {
		text    string
		wantErr error
	}{
		{"0", duration.ErrOutOfRange},
		{"25h", duration.ErrOutOfRange},
		{"1441m", duration.ErrOutOfRange},
		{"soon", duration.ErrUnrecognized},
		{"", duration.ErrUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := block.New("Focus", "2025-03-03", "09:00", tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDayWorkflow(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	work, err := block.NewCategory("Work", "blue")
	if err != nil {
		t.Fatalf("NewCategory failed: %v", err)
	}
	if err := repo.CreateCategory(ctx, work); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	focus := createBlock(t, repo, "Deep work", "2025-03-04", "09:00", "2h")
	focus.CategoryID = &work.ID
	if err := repo.UpdateBlock(ctx, focus); err != nil {
		t.Fatalf("UpdateBlock failed: %v", err)
	}
	email := createBlock(t, repo, "Email", "2025-03-04", "11:00", "30m")
	createTodo(t, repo, focus.ID, "Draft", true)
	createTodo(t, repo, focus.ID, "Review", true)
	pending := createTodo(t, repo, email.ID, "Inbox zero", false)

	// Adjacent blocks do not overlap; one starting inside focus does.
	clash, _ := block.New("Clash", "2025-03-04", "10:30", "1h")
	if err := repo.CreateBlock(ctx, clash); !errors.Is(err, block.ErrTimeBlockOverlap) {
		t.Fatalf("expected overlap error, got %v", err)
	}

	day, err := summary.BuildDaySummary(ctx, repo, repo, mustParseDate(t, "2025-03-04"))
	if err != nil {
		t.Fatalf("BuildDaySummary failed: %v", err)
	}
	if len(day.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(day.Blocks))
	}
	if day.TotalMinutes != 150 {
		t.Errorf("TotalMinutes: got %d, want 150", day.TotalMinutes)
	}
	if day.FormattedTotal() != "2h 30m" {
		t.Errorf("FormattedTotal: got %q, want %q", day.FormattedTotal(), "2h 30m")
	}
	if day.CategoryMinutes[work.ID] != 120 || day.CategoryMinutes[summary.Uncategorized] != 30 {
		t.Errorf("unexpected category minutes %v", day.CategoryMinutes)
	}
	if rate := day.Metrics.TimeblockCompletionRate; rate == nil || *rate != 0.5 {
		t.Errorf("TimeblockCompletionRate: got %v, want 0.5", rate)
	}

	if err := repo.SetTodoCompleted(ctx, pending.ID, true); err != nil {
		t.Fatalf("SetTodoCompleted failed: %v", err)
	}
	day, err = summary.BuildDaySummary(ctx, repo, repo, mustParseDate(t, "2025-03-04"))
	if err != nil {
		t.Fatalf("BuildDaySummary failed: %v", err)
	}
	if rate := day.Metrics.TodoCompletionRate; rate == nil || *rate != 1 {
		t.Errorf("TodoCompletionRate: got %v, want 1", rate)
	}

	// Resizing into the next block is rejected at the store.
	if err := focus.Resize(150); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if err := repo.UpdateBlock(ctx, focus); !errors.Is(err, block.ErrTimeBlockOverlap) {
		t.Errorf("expected overlap error on resize, got %v", err)
	}

	if err := repo.DeleteBlock(ctx, email.ID); err != nil {
		t.Fatalf("DeleteBlock failed: %v", err)
	}
	if _, err := repo.GetTodo(ctx, pending.ID); !errors.Is(err, block.ErrNotFound) {
		t.Errorf("todos should be deleted with their block, got %v", err)
	}
}

func TestMoveBlock(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	b := createBlock(t, repo, "Gym", "2025-03-05", "07:00", "1h")
	createBlock(t, repo, "Standup", "2025-03-06", "09:00", "15m")

	if err := b.Move("2025-03-06", "09:00"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if err := repo.UpdateBlock(ctx, b); !errors.Is(err, block.ErrTimeBlockOverlap) {
		t.Fatalf("expected overlap error, got %v", err)
	}

	if err := b.Move("2025-03-06", "18:00"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if err := repo.UpdateBlock(ctx, b); err != nil {
		t.Fatalf("UpdateBlock failed: %v", err)
	}

	got, err := repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if got.DateKey() != "2025-03-06" || got.StartClock() != "18:00" || got.EndClock() != "19:00" {
		t.Errorf("got %s %s-%s, want 2025-03-06 18:00-19:00", got.DateKey(), got.StartClock(), got.EndClock())
	}
}

func TestGoalsAndCheckIns(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	healthy, _ := goal.New("Run a marathon", "", "2025-12-31")
	behind, _ := goal.New("Write a book", "", "2025-12-31")
	dropped, _ := goal.New("Learn the harp", "", "2025-12-31")
	for _, g := range []*goal.Goal{healthy, behind, dropped} {
		if err := repo.CreateGoal(ctx, g); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
	}
	if err := repo.SetGoalStatus(ctx, dropped.ID, goal.StatusAbandoned); err != nil {
		t.Fatalf("SetGoalStatus failed: %v", err)
	}

	late, _ := goal.NewMilestone(behind.ID, "First chapter", "2025-01-15")
	if err := repo.CreateMilestone(ctx, late); err != nil {
		t.Fatalf("CreateMilestone failed: %v", err)
	}
	early, _ := goal.NewMilestone(healthy.ID, "10k", "2025-01-15")
	if err := repo.CreateMilestone(ctx, early); err != nil {
		t.Fatalf("CreateMilestone failed: %v", err)
	}
	if err := repo.SetMilestoneCompleted(ctx, early.ID, true); err != nil {
		t.Fatalf("SetMilestoneCompleted failed: %v", err)
	}

	b := createBlock(t, repo, "Training", "2025-03-10", "07:00", "1h")
	createTodo(t, repo, b.ID, "Intervals", true)

	from := mustParseDate(t, "2025-03-04")
	to := mustParseDate(t, "2025-03-10")
	metrics, err := summary.BuildRangeMetrics(ctx, repo, repo, from, to, to)
	if err != nil {
		t.Fatalf("BuildRangeMetrics failed: %v", err)
	}
	if metrics.GoalsOnTrack == nil || *metrics.GoalsOnTrack != 1 {
		t.Errorf("GoalsOnTrack: got %v, want 1", metrics.GoalsOnTrack)
	}
	if metrics.TimeblockCompletionRate == nil || *metrics.TimeblockCompletionRate != 1 {
		t.Errorf("TimeblockCompletionRate: got %v, want 1", metrics.TimeblockCompletionRate)
	}

	hours := 3.5
	c, err := goal.NewCheckIn(goal.CheckInInput{
		GoalID:          &behind.ID,
		Message:         "Skipped writing again",
		Sentiment:       "confrontational",
		ScreentimeHours: &hours,
	}, metrics)
	if err != nil {
		t.Fatalf("NewCheckIn failed: %v", err)
	}
	if err := repo.CreateCheckIn(ctx, c); err != nil {
		t.Fatalf("CreateCheckIn failed: %v", err)
	}

	checkIns, err := repo.ListCheckIns(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListCheckIns failed: %v", err)
	}
	if len(checkIns) != 1 {
		t.Fatalf("expected 1 check-in, got %d", len(checkIns))
	}
	got := checkIns[0]
	if !got.Confrontational || got.Sentiment != goal.SentimentConfrontational {
		t.Errorf("unexpected sentiment %q (confrontational=%v)", got.Sentiment, got.Confrontational)
	}
	if got.GoalID == nil || *got.GoalID != behind.ID {
		t.Errorf("GoalID: got %v, want %s", got.GoalID, behind.ID)
	}
	if got.GoalsOnTrack == nil || *got.GoalsOnTrack != 1 {
		t.Errorf("stored GoalsOnTrack: got %v, want 1", got.GoalsOnTrack)
	}
	if got.ScreentimeHours == nil || *got.ScreentimeHours != hours {
		t.Errorf("ScreentimeHours: got %v, want %v", got.ScreentimeHours, hours)
	}
}

func TestPreferencesDriveDefaultDuration(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	p, err := repo.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if err := p.Set("default_block_duration", "1:30"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.UpdatePreferences(ctx, p); err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}

	got, err := repo.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	b := createBlock(t, repo, "Planning", "2025-03-07", "09:00", duration.Format(got.DefaultBlockDuration))
	if b.DurationMinutes != 90 {
		t.Errorf("DurationMinutes: got %d, want 90", b.DurationMinutes)
	}
}

func TestWeekSummary(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	// 2025-03-03 is a Monday.
	createBlock(t, repo, "Monday", "2025-03-03", "09:00", "1h")
	createBlock(t, repo, "Sunday", "2025-03-09", "09:00", "30m")
	createBlock(t, repo, "Next week", "2025-03-10", "09:00", "2h")

	week, err := summary.BuildWeekSummary(ctx, repo, repo, mustParseDate(t, "2025-03-05"))
	if err != nil {
		t.Fatalf("BuildWeekSummary failed: %v", err)
	}
	if dateutil.FormatForDB(week.Start) != "2025-03-03" || dateutil.FormatForDB(week.End) != "2025-03-09" {
		t.Errorf("week range: got %s..%s", dateutil.FormatForDB(week.Start), dateutil.FormatForDB(week.End))
	}
	if week.BlockCount() != 2 {
		t.Errorf("BlockCount: got %d, want 2", week.BlockCount())
	}
	if week.TotalMinutes != 90 {
		t.Errorf("TotalMinutes: got %d, want 90", week.TotalMinutes)
	}
}
