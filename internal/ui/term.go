package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/kronos/internal/block"
)

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Warnings: yellow so they are noticed without alarming
	colorWarn = color.New(color.FgYellow)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Done: struck through items
	colorDone = color.New(color.FgWhite, color.Faint, color.CrossedOut)
)

// categoryColors maps category palette entries to terminal colors.
var categoryColors = map[block.Color]*color.Color{
	block.ColorBlue:   color.New(color.FgBlue),
	block.ColorGreen:  color.New(color.FgGreen),
	block.ColorRed:    color.New(color.FgRed),
	block.ColorPurple: color.New(color.FgMagenta),
	block.ColorYellow: color.New(color.FgYellow),
	block.ColorOrange: color.New(color.FgHiRed),
	block.ColorPink:   color.New(color.FgHiMagenta),
	block.ColorTeal:   color.New(color.FgCyan),
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatDone(s string) string {
	return colorDone.Sprint(s)
}

// formatCategory renders s in the category's palette color.
func formatCategory(s string, c block.Color) string {
	if cc, ok := categoryColors[c]; ok {
		return cc.Sprint(s)
	}
	return s
}
