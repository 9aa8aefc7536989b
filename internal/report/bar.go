package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// bar renders a fraction in [0, 1] as a horizontal bar followed by its
// percentage.
func bar(fraction float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * fraction)
	filled = min(max(filled, 0), width)

	return barFilled.Render(strings.Repeat(" ", filled)) +
		barEmpty.Render(strings.Repeat(" ", width-filled)) +
		lipgloss.NewStyle().Foreground(TextDim).Render(fmt.Sprintf(" %3d%%", int(fraction*100)))
}

// cell pads or truncates s to exactly width columns.
func cell(s string, width int) string {
	if lipgloss.Width(s) > width && width > 3 {
		r := []rune(s)
		for lipgloss.Width(string(r)) > width-3 {
			r = r[:len(r)-1]
		}
		s = string(r) + "..."
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func pct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

func num(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}
