package ui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/duration"
	"github.com/javiermolinar/kronos/internal/goal"
	"github.com/javiermolinar/kronos/internal/summary"
)

// idWidth is how many ID characters are shown in listings.
const idWidth = 8

func shortID(id string) string {
	if len(id) > idWidth {
		return id[:idWidth]
	}
	return id
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if width <= 3 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// categoryIndex looks up categories by ID.
type categoryIndex map[string]*block.Category

func (a *App) loadCategories(ctx context.Context) (categoryIndex, error) {
	categories, err := a.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	idx := make(categoryIndex, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx, nil
}

// label returns the colored "[name]" tag for a category ID, or "" when
// uncategorized.
func (idx categoryIndex) label(id *string) string {
	if id == nil {
		return ""
	}
	c, ok := idx[*id]
	if !ok {
		return ""
	}
	return formatCategory("["+c.Name+"]", c.Color)
}

func (idx categoryIndex) name(id string) string {
	if id == summary.Uncategorized {
		return "uncategorized"
	}
	if c, ok := idx[id]; ok {
		return c.Name
	}
	return shortID(id)
}

// formatRate renders a completion ratio as a percentage.
func formatRate(r *float64) string {
	if r == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *r*100)
}

// ProgressBar creates an ASCII bar with part out of total filled in.
func ProgressBar(part, total, width int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", width) + "]"
	}
	filled := (part * width) / total
	if filled > width {
		filled = width
	}
	return "[" + formatStats(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled) + "]"
}

// titleWidth returns how wide block titles may be on this terminal.
func titleWidth(defaultWidth int) int {
	// "  xxxxxxxx  HH:MM-HH:MM+1  1h 30m  " plus a category tag
	available := termWidth() - 48
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// printBlockRow prints one block with its schedule, category and todo count.
func printBlockRow(w io.Writer, bs summary.BlockSummary, cats categoryIndex, maxTitle int) {
	b := bs.Block
	clock := fmt.Sprintf("%s-%s", b.StartClock(), b.EndClock())
	line := fmt.Sprintf("  %s  %-14s %-7s %-*s",
		formatMuted(shortID(b.ID)), clock, b.FormattedDuration(), maxTitle, truncate(b.Title, maxTitle))
	if tag := cats.label(b.CategoryID); tag != "" {
		line += "  " + tag
	}
	if len(bs.Todos) > 0 {
		line += "  " + formatMuted(fmt.Sprintf("%d/%d", bs.Done(), len(bs.Todos)))
	}
	fmt.Fprintln(w, strings.TrimRight(line, " "))
}

// printTodoRow prints a todo with its completion marker.
func printTodoRow(w io.Writer, t *block.Todo, indent string) {
	if t.Completed {
		fmt.Fprintf(w, "%s%s ✓ %s\n", indent, formatMuted(shortID(t.ID)), formatDone(t.Text))
		return
	}
	fmt.Fprintf(w, "%s%s ○ %s\n", indent, formatMuted(shortID(t.ID)), t.Text)
}

// printCategoryTotals prints minutes per category, largest first.
func printCategoryTotals(w io.Writer, totals map[string]int, total int, cats categoryIndex) {
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if totals[ids[i]] != totals[ids[j]] {
			return totals[ids[i]] > totals[ids[j]]
		}
		return cats.name(ids[i]) < cats.name(ids[j])
	})

	for _, id := range ids {
		name := cats.name(id)
		if c, ok := cats[id]; ok {
			name = formatCategory(fmt.Sprintf("%-14s", name), c.Color)
		} else {
			name = fmt.Sprintf("%-14s", name)
		}
		fmt.Fprintf(w, "  %s %-7s %s\n", name, duration.Format(totals[id]), ProgressBar(totals[id], total, 20))
	}
}

// printMetrics prints the completion figures of a period.
func printMetrics(w io.Writer, m goal.Metrics) {
	line := fmt.Sprintf("Todos done: %s | Blocks completed: %s",
		formatStats(formatRate(m.TodoCompletionRate)),
		formatStats(formatRate(m.TimeblockCompletionRate)))
	if m.GoalsOnTrack != nil {
		line += fmt.Sprintf(" | Goals on track: %s", formatStats(fmt.Sprint(*m.GoalsOnTrack)))
	}
	fmt.Fprintln(w, line)
}

// wrapText wraps text to width and prints it with the given prefix.
func wrapText(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	continuation := strings.Repeat(" ", utf8.RuneCountInString(prefix))
	first := true
	flush := func() {
		if first {
			fmt.Fprintln(w, prefix+line)
		} else {
			fmt.Fprintln(w, continuation+line)
		}
		first = false
	}

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			flush()
			line = word
		}
	}
	flush()
}
