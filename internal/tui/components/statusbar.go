package components

import (
	"strings"

	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// the scenario source on the right and an optional flash message between.
func RenderStatusBar(width int, source, flash string, flashIsErr bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	flashStyle := lipgloss.NewStyle().
		Foreground(t.GreenBright).
		Background(t.Surface)
	if flashIsErr {
		flashStyle = flashStyle.Foreground(t.Red)
	}

	left := style.Render(" [?]help  [a]dd  [r]eload  [q]uit")
	if flash != "" {
		left += style.Render("  ") + flashStyle.Render(flash)
	}
	right := ""
	if source != "" {
		right = style.Render(source + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + style.Render(strings.Repeat(" ", padding)) + right
}
