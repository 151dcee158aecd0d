// Package tui implements the interactive UI Test Studio: a Bubble Tea app
// that walks the input → generation → review → simulated execution → report
// journey over the pure workflow state machine, so every transition the
// terminal shows is reproducible without one.
package tui

import "github.com/charmbracelet/lipgloss"

// Run status glyphs — convey meaning without relying on color alone.
const (
	GlyphPending = "○"
	GlyphRunning = "▸"
	GlyphPassed  = "✓"
	GlyphFailed  = "✗"
	GlyphError   = "!"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCyan).
	Padding(0, 1)

var unconfiguredBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorYellow).
	Padding(0, 1)

// --- Case list / run table styles ---

var (
	rowNormal = lipgloss.NewStyle().
			Foreground(colorWhite)

	rowSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	rowPassed = lipgloss.NewStyle().
			Foreground(colorGreen)

	rowFailed = lipgloss.NewStyle().
			Foreground(colorRed)

	rowPending = lipgloss.NewStyle().
			Faint(true)
)

// --- Panels and labels ---

var (
	panelBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	panelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// --- Key bar ---

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	keyBarStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

var errorStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)

var spinnerStyle = lipgloss.NewStyle().
	Foreground(colorYellow)

var summaryPassedStyle = lipgloss.NewStyle().
	Foreground(colorGreen).
	Bold(true)

var summaryFailedStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)
