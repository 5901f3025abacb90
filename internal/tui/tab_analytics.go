package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/tui/components"
	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderAnalyticsTab shows the year-by-year report of every memoized age.
func (a App) renderAnalyticsTab(cw, h int) string {
	t := theme.Active
	rows := a.rows
	state := a.anState

	if len(rows) == 0 {
		return components.ContentCard("Analytics", "", cw)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	negStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	colW := max((innerW-6)/4, 12)

	// Summary line
	var b strings.Builder
	if age, ok := a.engine.DepletionAge(); ok {
		b.WriteString(negStyle.Render(fmt.Sprintf("Balance first goes negative at age %d", age)))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render("Balance stays non-negative across every projected year"))
	}
	b.WriteString("\n")
	nets := make([]float64, 0, len(rows))
	for _, r := range rows {
		nets = append(nets, r.NetChange)
	}
	b.WriteString(mutedStyle.Render("Net change  "))
	b.WriteString(components.Sparkline(nets, t.Blue))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-6s%*s%*s%*s%*s", "Age", colW, "Balance", colW, "Expenses", colW, "Incomes", colW, "Net")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s", innerW, header)))
	b.WriteString("\n")

	visible := h - 10 // card border, summary, header, footer
	start, end := state.window(len(rows), visible)
	for i := start; i < end; i++ {
		r := rows[i]
		net := cli.FormatDelta(r.NetChange)
		if i == 0 {
			net = "-"
		}
		exp, inc := cli.FormatMoneyShort(r.Expenses), cli.FormatMoneyShort(r.Incomes)
		line := fmt.Sprintf("%-6d%*s%*s%*s%*s", r.Age,
			colW, cli.FormatMoney(r.Balance),
			colW, exp,
			colW, inc,
			colW, net)
		line = fmt.Sprintf("%-*s", innerW, line)

		switch {
		case i == state.cursor:
			b.WriteString(selectedStyle.Render(line))
		case r.Balance < 0:
			b.WriteString(negStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d memoized years  [j/k] move  [g/G] top/bottom", len(rows))))

	return components.ContentCard("Analytics", b.String(), cw)
}
