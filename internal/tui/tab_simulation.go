package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/projection"
	"github.com/theirongolddev/lifesim/internal/tui/components"
	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// simState holds the simulation tab state. The target age itself lives on
// App so recompute can project it.
type simState struct {
	typing bool
	input  textinput.Model
}

// setTarget moves the simulation target, clamped to valid ages.
func (a *App) setTarget(age int) {
	a.simTarget = max(0, min(age, cli.MaxAge))
	a.recompute()
}

// updateSimulationKey handles the simulation tab's keys.
func (a *App) updateSimulationKey(key string) (tea.Cmd, bool) {
	switch key {
	case "+", "=", "up", "k":
		a.setTarget(a.simTarget + 1)
	case "-", "_", "down", "j":
		a.setTarget(a.simTarget - 1)
	case "pgup":
		a.setTarget(a.simTarget + 10)
	case "pgdown":
		a.setTarget(a.simTarget - 10)
	case "home":
		a.setTarget(a.horizon)
	case "t":
		ti := textinput.New()
		ti.Placeholder = fmt.Sprintf("0-%d", cli.MaxAge)
		ti.CharLimit = 3
		ti.Width = 6
		ti.Focus()
		a.sim.typing = true
		a.sim.input = ti
		return ti.Cursor.BlinkCmd(), true
	default:
		return nil, false
	}
	return nil, true
}

func (a App) updateSimInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.sim.typing = false
		age, err := cli.ParseAge(a.sim.input.Value())
		if err != nil {
			a.setFlash(err.Error(), true)
			return a, nil
		}
		a.setTarget(age)
		a.setFlash("", false)
		return a, nil
	case "esc":
		a.sim.typing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.sim.input, cmd = a.sim.input.Update(msg)
	return a, cmd
}

func (a App) renderSimulationTab(cw int) string {
	t := theme.Active
	p := a.engine.Person()
	proj := a.projection
	now := p.CurrentBalance()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	bigStyle := lipgloss.NewStyle().Foreground(moneyColor(proj.Balance)).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder

	// Card 1: the projection
	var top strings.Builder
	top.WriteString(labelStyle.Render("Target age  "))
	if a.sim.typing {
		top.WriteString(a.sim.input.View())
	} else {
		top.WriteString(valueStyle.Render(fmt.Sprintf("%d", a.simTarget)))
	}
	top.WriteString("\n\n")
	top.WriteString(labelStyle.Render("Balance     "))
	top.WriteString(bigStyle.Render(cli.FormatMoney(proj.Balance)))
	top.WriteString("\n")
	top.WriteString(labelStyle.Render("Change      "))
	top.WriteString(valueStyle.Render(cli.FormatDelta(proj.Balance - now)))
	top.WriteString(labelStyle.Render(fmt.Sprintf(" vs age %d", p.Age)))
	top.WriteString("\n")
	top.WriteString(labelStyle.Render("Source      "))
	top.WriteString(valueStyle.Render(proj.Source.String()))
	if proj.Approximated() {
		top.WriteString("\n\n")
		top.WriteString(warnStyle.Render(fmt.Sprintf(
			"Approximated: age %d is before %d and backward mode is %s.", proj.Age, p.Age, a.engine.BackwardMode())))
		top.WriteString("\n")
		top.WriteString(dimStyle.Render("Set Backward to invert in Settings to walk the years back."))
	} else if proj.Source == projection.SourceBackward {
		top.WriteString("\n\n")
		top.WriteString(dimStyle.Render("Inverted from the reference balance year by year."))
	}
	top.WriteString("\n\n")
	barW := max(components.CardInnerWidth(cw)-8, 10)
	top.WriteString(components.ProgressBar(float64(a.simTarget)/float64(cli.MaxAge), barW))
	top.WriteString("\n")
	top.WriteString(dimStyle.Render(fmt.Sprintf("age %d of %d", a.simTarget, cli.MaxAge)))

	b.WriteString(components.ContentCard("Simulation", top.String(), cw))
	b.WriteString("\n")

	// Card 2: what is active in the target year
	exp, inc := a.engine.YearlyTotals(a.simTarget)
	var year strings.Builder
	fmt.Fprintf(&year, "%s%s\n", labelStyle.Render("Incomes   "), lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render(cli.FormatMoney(inc)))
	fmt.Fprintf(&year, "%s%s\n", labelStyle.Render("Expenses  "), lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(cli.FormatMoney(exp)))
	fmt.Fprintf(&year, "%s%s", labelStyle.Render("Net       "), valueStyle.Render(cli.FormatDelta(inc-exp)))

	var active []string
	for _, role := range []model.Role{model.RoleExpense, model.RoleIncome} {
		for _, it := range p.Items(role) {
			if it.ActiveAt(a.simTarget) {
				active = append(active, fmt.Sprintf("%s %s (%s/yr)", roleMarker(role), it.Name, cli.FormatMoneyShort(it.YearlyAmount())))
			}
		}
	}
	if len(active) > 0 {
		year.WriteString("\n\n")
		year.WriteString(valueStyle.Render(strings.Join(active, "\n")))
	}
	b.WriteString(components.ContentCard(fmt.Sprintf("Year starting at %d", a.simTarget), year.String(), cw))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  [+/-] ±1  [PgUp/PgDn] ±10  [Home] horizon  [t] type age"))

	return b.String()
}

func roleMarker(role model.Role) string {
	if role == model.RoleIncome {
		return "+"
	}
	return "-"
}
