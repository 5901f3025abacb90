package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/tui/components"
	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	p := a.engine.Person()
	now := p.CurrentBalance()
	var b strings.Builder

	// Row 1: metric cards
	atHorizon := now
	if n := len(a.points); n > 0 {
		atHorizon = a.points[n-1].Balance
	}
	exp, inc := a.engine.YearlyTotals(p.Age)
	net := inc - exp

	years, total, hasRunway := a.runway()
	runwayVal, runwayDelta := "n/a", "horizon not ahead"
	runwayColor := t.TextPrimary
	if hasRunway {
		if years < total {
			runwayVal = fmt.Sprintf("%d yrs", years)
			runwayDelta = fmt.Sprintf("negative at %d", p.Age+years)
			runwayColor = t.Red
		} else {
			runwayVal = "to " + fmt.Sprint(a.horizon)
			runwayDelta = "never negative"
			runwayColor = t.Green
		}
	}

	cards := []components.Metric{
		{Label: "Balance now", Value: cli.FormatMoneyShort(now), Delta: fmt.Sprintf("at age %d", p.Age), Color: moneyColor(now)},
		{Label: fmt.Sprintf("At %d", a.horizon), Value: cli.FormatMoneyShort(atHorizon), Delta: cli.FormatDelta(atHorizon - now), Color: moneyColor(atHorizon)},
		{Label: "Net this year", Value: cli.FormatMoneyShort(net), Delta: fmt.Sprintf("%s in / %s out", cli.FormatMoneyShort(inc), cli.FormatMoneyShort(exp)), Color: moneyColor(net)},
		{Label: "Runway", Value: runwayVal, Delta: runwayDelta, Color: runwayColor},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: balance chart
	if len(a.points) > 1 {
		vals := make([]float64, len(a.points))
		for i, pt := range a.points {
			vals[i] = pt.Balance
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Balance %d → %d", a.points[0].Age, a.points[len(a.points)-1].Age),
			components.SignedBarChart(vals, ageLabels(a.points), t.Blue, t.Red, components.CardInnerWidth(cw), a.chartHeight(10)),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: runway + largest items
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	var runwayBody strings.Builder
	if hasRunway {
		barW := max(components.CardInnerWidth(halves[0])-28, 8)
		runwayBody.WriteString(components.RunwayBar("Runway", years, total, 8, barW))
		runwayBody.WriteString("\n\n")
	}
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	fmt.Fprintf(&runwayBody, "%s %s\n", mutedStyle.Render("Expenses:"), valueStyle.Render(fmt.Sprintf("%d", len(p.Expenses))))
	fmt.Fprintf(&runwayBody, "%s %s\n", mutedStyle.Render("Incomes: "), valueStyle.Render(fmt.Sprintf("%d", len(p.Incomes))))
	fmt.Fprintf(&runwayBody, "%s %s", mutedStyle.Render("Memoized:"), valueStyle.Render(fmt.Sprintf("%d years", len(a.rows))))

	topCard := components.ContentCard("Largest Yearly Items", a.renderTopItems(components.CardInnerWidth(halves[1])), halves[1])
	runwayCard := components.ContentCard("Runway", runwayBody.String(), halves[0])

	if a.isCompactLayout() {
		b.WriteString(runwayCard)
		b.WriteString("\n")
		b.WriteString(topCard)
	} else {
		b.WriteString(components.CardRow([]string{runwayCard, topCard}))
	}

	return b.String()
}

// runway returns how many years after the reference age the balance stays
// non-negative, out of the span up to the horizon. ok is false when the
// horizon is not ahead of the reference age.
func (a App) runway() (years, total int, ok bool) {
	ref := a.engine.Person().Age
	total = a.horizon - ref
	if total <= 0 {
		return 0, 0, false
	}
	for _, pt := range a.points {
		if pt.Age >= ref && pt.Balance < 0 {
			return pt.Age - ref, total, true
		}
	}
	return total, total, true
}

// renderTopItems lists the five largest items by yearly amount, with
// expenses and incomes side by side in one ranking.
func (a App) renderTopItems(innerW int) string {
	t := theme.Active
	p := a.engine.Person()

	type ranked struct {
		item model.Item
		role model.Role
	}
	var all []ranked
	for _, it := range p.Expenses {
		all = append(all, ranked{it, model.RoleExpense})
	}
	for _, it := range p.Incomes {
		all = append(all, ranked{it, model.RoleIncome})
	}
	if len(all) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No items yet. Press [a] to add one.")
	}
	slices.SortStableFunc(all, func(x, y ranked) int {
		return cmp.Compare(y.item.YearlyAmount(), x.item.YearlyAmount())
	})
	all = all[:min(len(all), 5)]

	peak := all[0].item.YearlyAmount()
	nameW := max(innerW/3, 10)
	amtW := 9
	barMax := max(innerW-nameW-amtW-2, 1)

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amtStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var body strings.Builder
	for _, r := range all {
		color := t.Red
		if r.role == model.RoleIncome {
			color = t.Green
		}
		barLen := 0
		if peak > 0 {
			barLen = int(r.item.YearlyAmount() / peak * float64(barMax))
		}
		fmt.Fprintf(&body, "%s%s%s%s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(r.item.Name, nameW-1))),
			amtStyle.Render(fmt.Sprintf("%*s", amtW, cli.FormatMoneyShort(r.item.YearlyAmount()))),
			spaceStyle.Render(" "),
			lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", barLen)))
	}
	return strings.TrimRight(body.String(), "\n")
}

func moneyColor(v float64) lipgloss.Color {
	if v < 0 {
		return theme.Active.Red
	}
	return theme.Active.Green
}
