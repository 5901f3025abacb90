package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/config"
	"github.com/theirongolddev/lifesim/internal/projection"
	"github.com/theirongolddev/lifesim/internal/tui/components"
	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldScale
	settingsFieldHorizon
	settingsFieldBackward
	settingsFieldWatch
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func formatScale(s float64) string {
	return strconv.FormatFloat(s, 'g', -1, 64)
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldScale:
		opts := make([]string, len(config.ScaleOptions))
		for i, s := range config.ScaleOptions {
			opts[i] = formatScale(s)
		}
		ti.Placeholder = strings.Join(opts, ", ")
		ti.SetValue(formatScale(a.scale))
	case settingsFieldHorizon:
		ti.Placeholder = strconv.Itoa(config.DefaultHorizon)
		ti.SetValue(strconv.Itoa(a.horizon))
	case settingsFieldBackward:
		ti.Placeholder = "fallback or invert"
		ti.SetValue(a.engine.BackwardMode().String())
	case settingsFieldWatch:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.cfg.TUI.WatchScenario))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "enter":
		cmd := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field to the running dashboard and
// persists it. The file is read without environment overrides so they are
// never written back.
func (a *App) settingsSave() tea.Cmd {
	cfg, err := config.LoadFile()
	if err != nil {
		a.settings.saveErr = err
		return nil
	}
	val := strings.TrimSpace(a.settings.input.Value())

	var cmd tea.Cmd
	switch a.settings.cursor {
	case settingsFieldTheme:
		if !slices.Contains(theme.Names(), val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return nil
		}
		cfg.Appearance.Theme = val
		a.cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldScale:
		s, err := strconv.ParseFloat(val, 64)
		if err != nil || !config.ValidScale(s) {
			a.settings.saveErr = fmt.Errorf("scale must be one of %v", config.ScaleOptions)
			return nil
		}
		cfg.Appearance.Scale = s
		a.cfg.Appearance.Scale = s
		a.scale = s
	case settingsFieldHorizon:
		h, err := cli.ParseAge(val)
		if err == nil && h == 0 {
			err = errors.New("horizon must be positive")
		}
		if err != nil {
			a.settings.saveErr = err
			return nil
		}
		cfg.General.Horizon = h
		a.cfg.General.Horizon = h
		a.horizon = h
		a.recompute()
	case settingsFieldBackward:
		m, err := projection.ParseBackwardMode(val)
		if err != nil {
			a.settings.saveErr = err
			return nil
		}
		cfg.General.Backward = m.String()
		a.setBackwardMode(m)
	case settingsFieldWatch:
		on, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("watch: %q is not true or false", val)
			return nil
		}
		cfg.TUI.WatchScenario = on
		cmd = a.setWatch(on)
	}

	a.settings.saveErr = config.Save(cfg)
	return cmd
}

// setBackwardMode rebuilds the engine with mode m. Balances memoized under
// the old mode are dropped.
func (a *App) setBackwardMode(m projection.BackwardMode) {
	a.cfg.General.Backward = m.String()
	if a.engine == nil || a.engine.BackwardMode() == m {
		return
	}
	snap := a.engine.Snapshot()
	snap.BalanceHistory = nil
	a.engine = projection.New(&snap, projection.WithBackwardMode(m))
	a.recompute()
}

// setWatch starts or stops watching the scenario file.
func (a *App) setWatch(on bool) tea.Cmd {
	a.cfg.TUI.WatchScenario = on
	if !on {
		if a.watcher != nil {
			_ = a.watcher.Close()
			a.watcher = nil
		}
		return nil
	}
	if a.watcher != nil || a.scenarioPath == "" {
		return nil
	}
	w, err := newScenarioWatcher(a.scenarioPath)
	if err != nil {
		a.setFlash(err.Error(), true)
		return nil
	}
	a.watcher = w
	return w.wait()
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	watch := strconv.FormatBool(a.cfg.TUI.WatchScenario)
	if a.scenarioPath == "" {
		watch += " (no scenario file)"
	}

	fields := []field{
		{"Theme", a.cfg.Appearance.Theme},
		{"Chart Scale", formatScale(a.scale)},
		{"Horizon Age", strconv.Itoa(a.horizon)},
		{"Backward Mode", a.engine.BackwardMode().String()},
		{"Watch Scenario", watch},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			padLen := components.CardInnerWidth(cw) - usedWidth
			if padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	p := a.engine.Person()
	scenarioFile := a.scenarioPath
	if scenarioFile == "" {
		scenarioFile = "(none, entered interactively)"
	}

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Person:          ") + valueStyle.Render(fmt.Sprintf("%s, %d", p.Name, p.Age)) + "\n")
	infoBody.WriteString(labelStyle.Render("Capital:         ") + valueStyle.Render(cli.FormatMoney(p.Capital)) + "\n")
	infoBody.WriteString(labelStyle.Render("Scenario file:   ") + valueStyle.Render(scenarioFile) + "\n")
	infoBody.WriteString(labelStyle.Render("Memoized years:  ") + valueStyle.Render(cli.FormatNumber(int64(len(a.rows)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
