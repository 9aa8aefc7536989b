package report

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextDim)

	bodyStyle = lipgloss.NewStyle().
			Foreground(Text)

	hintStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)
)

// States
var (
	masteredStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	learningStyle = lipgloss.NewStyle().
			Foreground(Accent)

	warnStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Bars
var (
	barFilled = lipgloss.NewStyle().
			Background(Secondary)

	barEmpty = lipgloss.NewStyle().
			Background(Border)
)
