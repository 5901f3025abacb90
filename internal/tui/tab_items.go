package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/tui/components"
	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func roleTitle(role model.Role) string {
	if role == model.RoleIncome {
		return "Incomes"
	}
	return "Expenses"
}

// renderItemsTab shows one role's items as a list with the selected item's
// detail beside it (below it on narrow terminals).
func (a App) renderItemsTab(role model.Role, cw, h int) string {
	t := theme.Active
	items := a.engine.Person().Items(role)
	state := a.expState
	if role == model.RoleIncome {
		state = a.incState
	}

	if len(items) == 0 {
		msg := fmt.Sprintf("No %s yet. Press [a] to add one.", strings.ToLower(roleTitle(role)))
		return components.ContentCard(roleTitle(role), lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(msg), cw)
	}
	if state.cursor >= len(items) {
		return ""
	}

	leftW, rightW := max(cw*2/5, 36), 0
	if a.isCompactLayout() {
		leftW = cw
	} else {
		rightW = cw - leftW
	}
	leftInner := components.CardInnerWidth(leftW)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	visible := h - 6 // card border (2) + footer hint (2) + slack
	if a.isCompactLayout() {
		visible = max(visible/2, 3)
	}
	start, end := state.window(len(items), visible)

	amtW := 16
	nameW := max(leftInner-amtW-1, 6)

	var list strings.Builder
	for i := start; i < end; i++ {
		it := items[i]
		amount := fmt.Sprintf("%s/%s", cli.FormatMoneyShort(it.Amount), freqUnit(it.Frequency))
		line := fmt.Sprintf("%-*s %*s", nameW, truncStr(it.Name, nameW), amtW, amount)
		line = fmt.Sprintf("%-*s", leftInner, line)

		if i == state.cursor {
			list.WriteString(selectedStyle.Render(line))
		} else {
			list.WriteString(rowStyle.Render(line))
		}
		list.WriteString("\n")
	}
	list.WriteString("\n")
	list.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d  [j/k] move  [a] add", state.cursor+1, len(items))))

	leftCard := components.ContentCard(fmt.Sprintf("%s (%d)", roleTitle(role), len(items)), list.String(), leftW)

	sel := items[state.cursor]
	if a.isCompactLayout() {
		detail := components.ContentCard(sel.Name, a.renderItemDetail(sel, role), cw)
		return leftCard + "\n" + detail
	}
	rightCard := components.ContentCard(sel.Name, a.renderItemDetail(sel, role), rightW)
	return components.CardRow([]string{leftCard, rightCard})
}

func (a App) renderItemDetail(it model.Item, role model.Role) string {
	t := theme.Active
	p := a.engine.Person()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	accent := t.Red
	if role == model.RoleIncome {
		accent = t.Green
	}
	amountStyle := lipgloss.NewStyle().Foreground(accent).Background(t.Surface).Bold(true)

	// Total the item contributes between the reference age and the horizon.
	var span float64
	for age := p.Age; age < a.horizon; age++ {
		if it.ActiveAt(age) {
			span += it.YearlyAmount()
		}
	}

	status := "inactive"
	switch {
	case it.ActiveAt(p.Age):
		status = "active now"
	case p.Age < it.StartAge:
		status = fmt.Sprintf("starts in %d yrs", it.StartAge-p.Age)
	case it.EndAge != nil:
		status = "ended"
	}

	rows := []struct{ label, value string }{
		{"Amount", amountStyle.Render(cli.FormatMoney(it.Amount))},
		{"Frequency", valueStyle.Render(it.Frequency.String())},
		{"Per year", valueStyle.Render(cli.FormatMoney(it.YearlyAmount()))},
		{"Ages", valueStyle.Render(cli.FormatAgeRange(it.StartAge, it.EndAge))},
		{"Status", valueStyle.Render(status)},
		{fmt.Sprintf("Until %d", a.horizon), amountStyle.Render(cli.FormatMoney(span))},
	}

	var b strings.Builder
	for i, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-11s", r.label)))
		b.WriteString(r.value)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func freqUnit(f model.Frequency) string {
	switch f {
	case model.Monthly:
		return "mo"
	case model.Daily:
		return "day"
	default:
		return "yr"
	}
}
