// Package tui provides the interactive Bubble Tea dashboard for lifesim.
package tui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/config"
	"github.com/theirongolddev/lifesim/internal/logging"
	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/projection"
	"github.com/theirongolddev/lifesim/internal/scenario"
	"github.com/theirongolddev/lifesim/internal/tui/components"
	"github.com/theirongolddev/lifesim/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// scenarioLoadedMsg is sent when a scenario (re)load finishes.
type scenarioLoadedMsg struct {
	engine *projection.Engine
	err    error
}

// Options configures the dashboard.
type Options struct {
	Engine   *projection.Engine // nil starts with the person form
	Scenario string             // reloaded by [r] and watched when enabled
	Config   config.Config
	Logger   *slog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	engine       *projection.Engine
	scenarioPath string
	cfg          config.Config
	log          *slog.Logger
	watcher      *scenarioWatcher

	// Pre-computed in recompute; View never touches the engine's cache.
	points     []projection.Point
	rows       []projection.Row
	projection projection.Projection

	horizon   int
	simTarget int
	scale     float64

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string
	flashErr  bool

	// Per-tab state
	expState listState
	incState listState
	anState  listState
	sim      simState
	settings settingsState

	// huh forms; the values are pointers because App is copied on update.
	form       *huh.Form
	formKind   formKind
	personVals *personFormValues
	itemVals   *itemFormValues
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	// Scroll navigation
	scrollOverhead    = 10 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// NewApp creates the dashboard model.
func NewApp(opts Options) App {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	horizon := cfg.General.Horizon
	if horizon <= 0 {
		horizon = config.DefaultHorizon
	}
	horizon = min(horizon, cli.MaxAge)
	scale := cfg.Appearance.Scale
	if !config.ValidScale(scale) {
		scale = 1.0
	}

	a := App{
		engine:       opts.Engine,
		scenarioPath: opts.Scenario,
		cfg:          cfg,
		log:          log,
		horizon:      horizon,
		simTarget:    horizon,
		scale:        scale,
	}
	if a.engine == nil {
		a.personVals = &personFormValues{}
		a.form = newPersonForm(a.personVals)
		a.formKind = formPerson
	} else {
		a.recompute()
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	if a.watcher != nil {
		cmds = append(cmds, a.watcher.wait())
	}
	return tea.Batch(cmds...)
}

// recompute refreshes every projection the tabs render.
func (a *App) recompute() {
	if a.engine == nil {
		return
	}
	a.points = a.engine.ProjectRange(a.horizon)
	a.projection = a.engine.Project(a.simTarget)
	a.rows = a.engine.Report()

	p := a.engine.Person()
	a.expState.clamp(len(p.Expenses))
	a.incState.clamp(len(p.Incomes))
	a.anState.clamp(len(a.rows))
}

func (a App) backwardMode() projection.BackwardMode {
	m, err := projection.ParseBackwardMode(a.cfg.General.Backward)
	if err != nil {
		return projection.BackwardFallback
	}
	return m
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.engine == nil || a.showHelp || a.form != nil {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			// Tab bar is the first line.
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case scenarioLoadedMsg:
		if msg.err != nil {
			a.log.Warn("scenario reload failed", "path", a.scenarioPath, "err", msg.err)
			a.setFlash("reload failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.engine = msg.engine
		a.recompute()
		a.log.Info("scenario reloaded", "path", a.scenarioPath)
		a.setFlash("scenario reloaded", false)
		return a, nil

	case scenarioChangedMsg:
		cmds := []tea.Cmd{loadScenarioCmd(a.scenarioPath, a.backwardMode())}
		if a.watcher != nil {
			cmds = append(cmds, a.watcher.wait())
		}
		return a, tea.Batch(cmds...)

	case watchErrMsg:
		a.log.Warn("scenario watch", "err", msg.err)
		a.setFlash("watch: "+msg.err.Error(), true)
		if a.watcher != nil {
			return a, a.watcher.wait()
		}
		return a, nil
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.form != nil {
		if key == "esc" && a.formKind == formItem {
			a.form, a.formKind = nil, formNone
			a.setFlash("cancelled", false)
			return a, nil
		}
		return a.updateForm(msg)
	}

	// Text inputs own the keyboard while editing.
	if a.activeTab == components.TabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.activeTab == components.TabSimulation && a.sim.typing {
		return a.updateSimInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case components.TabExpenses, components.TabIncomes, components.TabAnalytics:
		if a.updateList(key) {
			return a, nil
		}
	case components.TabSimulation:
		if cmd, ok := a.updateSimulationKey(key); ok {
			return a, cmd
		}
	case components.TabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if a.scenarioPath == "" {
			a.setFlash("no scenario file to reload", true)
			return a, nil
		}
		return a, loadScenarioCmd(a.scenarioPath, a.backwardMode())
	case "a":
		return a.startItemForm()
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) startItemForm() (tea.Model, tea.Cmd) {
	role := model.RoleExpense
	if a.activeTab == components.TabIncomes {
		role = model.RoleIncome
	}
	a.itemVals = itemDefaults(role, a.engine.Person().Age)
	a.form = newItemForm(a.itemVals)
	a.formKind = formItem
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind := a.formKind
		a.form, a.formKind = nil, formNone
		return a.completeForm(kind)
	case huh.StateAborted:
		a.form, a.formKind = nil, formNone
		if a.engine == nil {
			return a, tea.Quit
		}
		a.setFlash("cancelled", false)
		return a, nil
	}

	return a, cmd
}

func (a App) completeForm(kind formKind) (tea.Model, tea.Cmd) {
	switch kind {
	case formPerson:
		p, err := a.personVals.person()
		if err != nil {
			a.setFlash(err.Error(), true)
			a.form, a.formKind = newPersonForm(a.personVals), formPerson
			return a, a.form.Init()
		}
		a.engine = projection.New(p, projection.WithBackwardMode(a.backwardMode()))
		a.recompute()
		a.log.Info("person created", "name", p.Name, "age", p.Age)
		a.setFlash("welcome, "+p.Name, false)

	case formItem:
		role, it, err := a.itemVals.item()
		if err != nil {
			a.setFlash("could not add item: "+err.Error(), true)
			return a, nil
		}
		a.engine.Add(role, it)
		a.recompute()
		a.log.Info("item added", "role", role, "name", it.Name)
		a.setFlash(fmt.Sprintf("added %s %q", role, it.Name), false)

		p := a.engine.Person()
		if role == model.RoleIncome {
			a.activeTab = components.TabIncomes
			a.incState.cursor = len(p.Incomes) - 1
		} else {
			a.activeTab = components.TabExpenses
			a.expState.cursor = len(p.Expenses) - 1
		}
	}
	return a, nil
}

func loadScenarioCmd(path string, mode projection.BackwardMode) tea.Cmd {
	return func() tea.Msg {
		sc, err := scenario.Load(path)
		if err != nil {
			return scenarioLoadedMsg{err: err}
		}
		e, err := sc.Build(projection.WithBackwardMode(mode))
		return scenarioLoadedMsg{engine: e, err: err}
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// chartHeight scales a base chart height by the configured scale.
func (a App) chartHeight(base int) int {
	return max(3, int(float64(base)*a.scale))
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.form != nil {
		return a.viewForm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  lifesim needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	title := " · New person"
	if a.formKind == formItem {
		title = " · Add item  (esc to cancel)"
	}

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ lifesim"))
	b.WriteString(subtitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(a.form.View())
	if a.flash != "" && a.flashErr {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.flash))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	type binding struct{ key, desc string }
	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Navigation", []binding{
			{"o e i s y x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Navigate lists"},
			{"g G", "Top / Bottom"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Simulation", []binding{
			{"+ -", "Target age ±1"},
			{"PgUp PgDn", "Target age ±10"},
			{"Home", "Back to horizon"},
			{"t", "Type a target age"},
		}},
		{"Actions", []binding{
			{"a", "Add expense / income"},
			{"Enter", "Edit setting / Confirm"},
			{"Esc", "Cancel"},
			{"r", "Reload scenario file"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-11s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + person pill
	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	pillAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	p := a.engine.Person()
	pill := pillStyle.Render(" ") +
		pillAccentStyle.Render(p.Name) +
		pillStyle.Render(" │ age ") + pillAccentStyle.Render(strconv.Itoa(p.Age)) +
		pillStyle.Render(" │ horizon ") + pillAccentStyle.Render(strconv.Itoa(a.horizon)) +
		pillStyle.Render(" │ ") + pillAccentStyle.Render(a.engine.BackwardMode().String()) +
		pillStyle.Render(" ")

	pillRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		pillRowStyle.Render(pill)

	// 2. Status bar
	source := "interactive"
	if a.scenarioPath != "" {
		source = filepath.Base(a.scenarioPath)
		if a.watcher != nil {
			source += " (watching)"
		}
	}
	statusBar := components.RenderStatusBar(w, source, a.flash, a.flashErr)

	// 3. Content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := max(h-headerH-statusH, minContentHeight)

	// 4. Tab content
	var content string
	switch a.activeTab {
	case components.TabOverview:
		content = a.renderOverviewTab(cw)
	case components.TabExpenses:
		content = a.renderItemsTab(model.RoleExpense, cw, contentH)
	case components.TabIncomes:
		content = a.renderItemsTab(model.RoleIncome, cw, contentH)
	case components.TabSimulation:
		content = a.renderSimulationTab(cw)
	case components.TabAnalytics:
		content = a.renderAnalyticsTab(cw, contentH)
	case components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Place content with background fill (handles centering when w > cw)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// listState is a cursor into a scrollable list.
type listState struct {
	cursor int
	offset int
}

func (l *listState) move(delta, n int) {
	l.cursor = max(0, min(l.cursor+delta, n-1))
}

func (l *listState) clamp(n int) {
	l.move(0, n)
}

// window returns the [start, end) range of a list of n rows that keeps
// the cursor visible in visible rows.
func (l *listState) window(n, visible int) (int, int) {
	visible = max(visible, 1)
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
	l.offset = max(0, min(l.offset, max(n-visible, 0)))
	return l.offset, min(l.offset+visible, n)
}

// activeList returns the list state and length for the current tab.
func (a *App) activeList() (*listState, int) {
	switch a.activeTab {
	case components.TabExpenses:
		return &a.expState, len(a.engine.Person().Expenses)
	case components.TabIncomes:
		return &a.incState, len(a.engine.Person().Incomes)
	case components.TabAnalytics:
		return &a.anState, len(a.rows)
	}
	return nil, 0
}

func (a *App) moveCursor(delta int) {
	if l, n := a.activeList(); l != nil {
		l.move(delta, n)
	}
}

// updateList handles list navigation keys, reporting whether key was one.
func (a *App) updateList(key string) bool {
	l, n := a.activeList()
	if l == nil {
		return false
	}
	halfPage := max((a.height-scrollOverhead)/2, minHalfPageScroll)

	switch key {
	case "j", "down":
		l.move(1, n)
	case "k", "up":
		l.move(-1, n)
	case "g":
		l.cursor = 0
	case "G":
		l.cursor = max(n-1, 0)
	case "ctrl+d":
		l.move(halfPage, n)
	case "ctrl+u":
		l.move(-halfPage, n)
	default:
		return false
	}
	return true
}

// ageLabels returns X-axis labels for a run of projected points.
func ageLabels(points []projection.Point) []string {
	labels := make([]string, len(points))
	for i, pt := range points {
		labels[i] = strconv.Itoa(pt.Age)
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
