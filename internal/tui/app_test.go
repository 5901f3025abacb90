package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/lifesim/internal/config"
	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/projection"
	"github.com/theirongolddev/lifesim/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

// newTestApp returns a dashboard for Jane, 30, with $10,000 and a net
// +$2,000 a year from age 30.
func newTestApp(t *testing.T) App {
	t.Helper()
	p, err := model.NewPerson("Jane", 30, 10000)
	if err != nil {
		t.Fatalf("NewPerson: %v", err)
	}
	e := projection.New(p)
	rent, err := model.NewItem("Rent", 500, model.Monthly, 30, nil)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	salary, err := model.NewItem("Salary", 8000, model.Yearly, 30, nil)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	e.AddExpense(rent)
	e.AddIncome(salary)

	a := NewApp(Options{Engine: e, Config: config.DefaultConfig()})
	a.width, a.height = 140, 45
	return a
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestNewAppProjectsToHorizon(t *testing.T) {
	a := newTestApp(t)

	if len(a.points) != 65-30+1 {
		t.Fatalf("points = %d, want %d", len(a.points), 65-30+1)
	}
	last := a.points[len(a.points)-1]
	if last.Age != 65 || last.Balance != 80000 {
		t.Fatalf("last point = %+v, want age 65 balance 80000", last)
	}
	if a.projection.Age != 65 || a.projection.Balance != 80000 {
		t.Fatalf("projection = %+v", a.projection)
	}
}

func TestNewAppWithoutEngineStartsPersonForm(t *testing.T) {
	a := NewApp(Options{Config: config.DefaultConfig()})
	if a.form == nil || a.formKind != formPerson {
		t.Fatalf("form = %v kind = %v, want person form", a.form, a.formKind)
	}
}

func TestTabKeys(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, "e")
	if a.activeTab != components.TabExpenses {
		t.Fatalf("after e: tab = %d", a.activeTab)
	}
	a = press(t, a, "y")
	if a.activeTab != components.TabAnalytics {
		t.Fatalf("after y: tab = %d", a.activeTab)
	}
	a = press(t, a, "right")
	if a.activeTab != components.TabSettings {
		t.Fatalf("after right: tab = %d", a.activeTab)
	}
	a = press(t, a, "right")
	if a.activeTab != components.TabOverview {
		t.Fatalf("right should wrap, tab = %d", a.activeTab)
	}
}

func TestSimulationTargetKeys(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "s", "+", "+")

	if a.simTarget != 67 {
		t.Fatalf("simTarget = %d, want 67", a.simTarget)
	}
	if a.projection.Age != 67 || a.projection.Balance != 84000 {
		t.Fatalf("projection = %+v, want 84000 at 67", a.projection)
	}

	a = press(t, a, "t", "4", "0", "enter")
	if a.simTarget != 40 || a.projection.Balance != 30000 {
		t.Fatalf("typed target: simTarget=%d projection=%+v", a.simTarget, a.projection)
	}
}

func TestSimulationTypedTargetRejectsBadAge(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "s", "t", "9", "9", "9", "enter")

	if a.simTarget != 65 {
		t.Fatalf("simTarget = %d, want unchanged 65", a.simTarget)
	}
	if !a.flashErr {
		t.Fatal("expected an error flash")
	}
}

func TestBackwardModeSwitch(t *testing.T) {
	a := newTestApp(t)
	a.setTarget(25)

	if !a.projection.Approximated() || a.projection.Balance != 10000 {
		t.Fatalf("fallback projection = %+v", a.projection)
	}

	a.setBackwardMode(projection.BackwardInvert)
	if a.projection.Source != projection.SourceBackward {
		t.Fatalf("source = %v, want backward", a.projection.Source)
	}
	if a.projection.Balance != 0 {
		t.Fatalf("inverted balance = %v, want 0", a.projection.Balance)
	}
	if len(a.engine.Person().Expenses) != 1 || len(a.engine.Person().Incomes) != 1 {
		t.Fatal("rebuilt engine lost items")
	}
}

func TestCompleteItemForm(t *testing.T) {
	a := newTestApp(t)
	a.itemVals = &itemFormValues{
		Role:      "expense",
		Name:      "Car",
		Amount:    "1,000",
		Frequency: "yearly",
		Start:     "40",
		End:       "45",
	}

	m, _ := a.completeForm(formItem)
	a = m.(App)

	if got := len(a.engine.Person().Expenses); got != 2 {
		t.Fatalf("expenses = %d, want 2", got)
	}
	if a.activeTab != components.TabExpenses || a.expState.cursor != 1 {
		t.Fatalf("tab=%d cursor=%d, want expenses tab on the new item", a.activeTab, a.expState.cursor)
	}
	// 35 years of +2000 minus 5 years of the car.
	if last := a.points[len(a.points)-1]; last.Balance != 75000 {
		t.Fatalf("balance at 65 = %v, want 75000", last.Balance)
	}
}

func TestCompleteItemFormRejectsBadRange(t *testing.T) {
	a := newTestApp(t)
	a.itemVals = &itemFormValues{Role: "income", Name: "Gig", Amount: "10", Frequency: "daily", Start: "50", End: "40"}

	m, _ := a.completeForm(formItem)
	a = m.(App)

	if len(a.engine.Person().Incomes) != 1 {
		t.Fatal("invalid item should not be added")
	}
	if !a.flashErr {
		t.Fatal("expected an error flash")
	}
}

func TestItemDefaultsFollowTab(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "i")
	m, _ := a.startItemForm()
	a = m.(App)

	if a.itemVals.Role != string(model.RoleIncome) || a.itemVals.Start != "30" {
		t.Fatalf("defaults = %+v", a.itemVals)
	}
	a = press(t, a, "esc")
	if a.form != nil {
		t.Fatal("esc should cancel the item form")
	}
}

func TestListNavigationClamps(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "y", "G")

	if a.anState.cursor != len(a.rows)-1 {
		t.Fatalf("cursor = %d, want %d", a.anState.cursor, len(a.rows)-1)
	}
	a = press(t, a, "j")
	if a.anState.cursor != len(a.rows)-1 {
		t.Fatal("cursor moved past the end")
	}
	a = press(t, a, "g", "k")
	if a.anState.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", a.anState.cursor)
	}
}

func TestScenarioReloadFailureFlashes(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(scenarioLoadedMsg{err: os.ErrNotExist})
	a = m.(App)

	if !a.flashErr || !strings.Contains(a.flash, "reload failed") {
		t.Fatalf("flash = %q (err=%v)", a.flash, a.flashErr)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(t)
	for i := range components.Tabs {
		a.activeTab = i
		out := a.View()
		if !strings.Contains(out, "Jane") {
			t.Fatalf("tab %d: header missing person name", i)
		}
		if got := len(strings.Split(out, "\n")); got != a.height {
			t.Fatalf("tab %d: %d lines, want %d", i, got, a.height)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	a.width = 60
	if !strings.Contains(a.View(), "too narrow") {
		t.Fatal("expected too-narrow notice")
	}
}

func TestSettingsSaveHorizon(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LIFESIM_HORIZON", "90")

	a := newTestApp(t)
	a.activeTab = components.TabSettings
	a.settings.cursor = settingsFieldHorizon
	a.settings.input = newSettingsInput()
	a.settings.input.SetValue("70")

	if cmd := a.settingsSave(); cmd != nil {
		t.Fatal("horizon change should not return a command")
	}
	if a.settings.saveErr != nil {
		t.Fatalf("saveErr: %v", a.settings.saveErr)
	}
	if a.horizon != 70 || a.points[len(a.points)-1].Age != 70 {
		t.Fatalf("horizon = %d", a.horizon)
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.General.Horizon != 70 {
		t.Fatalf("saved horizon = %d, want 70", cfg.General.Horizon)
	}
}

func TestSettingsSaveRejectsUnknownTheme(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := newTestApp(t)
	a.settings.cursor = settingsFieldTheme
	a.settings.input = newSettingsInput()
	a.settings.input.SetValue("neon")
	a.settingsSave()

	if a.settings.saveErr == nil {
		t.Fatal("expected an error for an unknown theme")
	}
	if config.Exists() {
		t.Fatal("nothing should be written on a rejected value")
	}
}

func TestScenarioWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jane.toml")
	if err := os.WriteFile(path, []byte("[person]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := newScenarioWatcher(path)
	if err != nil {
		t.Fatalf("newScenarioWatcher: %v", err)
	}
	defer w.Close()

	got := make(chan tea.Msg, 1)
	go func() { got <- w.wait()() }()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[person]\nname = \"Jane\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-got:
		if _, ok := msg.(scenarioChangedMsg); !ok {
			t.Fatalf("msg = %T, want scenarioChangedMsg", msg)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}
