package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/config"
	"github.com/theirongolddev/lifesim/internal/logging"
	"github.com/theirongolddev/lifesim/internal/projection"
)

const janeTOML = `
[person]
name = "Jane"
age = 30
capital = 10000.0

[[expenses]]
name = "Rent"
amount = 500.0
frequency = "monthly"
start_age = 30

[[incomes]]
name = "Salary"
amount = 8000.0
frequency = "yearly"
start_age = 30
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jane.toml")
	if err := os.WriteFile(path, []byte(janeTOML), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEngineRequiresScenario(t *testing.T) {
	_, err := loadEngine(config.DefaultConfig(), logging.Discard())
	if !errors.Is(err, errNoScenario) {
		t.Fatalf("err = %v, want errNoScenario", err)
	}
}

func TestLoadEngineAppliesBackwardMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.Scenario = writeScenario(t)
	cfg.General.Backward = "invert"

	e, err := loadEngine(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("loadEngine: %v", err)
	}
	if e.BackwardMode() != projection.BackwardInvert {
		t.Fatalf("mode = %v, want invert", e.BackwardMode())
	}
	if got := e.BalanceAt(35); got != 20000 {
		t.Fatalf("balance at 35 = %v, want 20000", got)
	}
}

func TestLoadEngineRejectsUnknownBackwardMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.Scenario = writeScenario(t)
	cfg.General.Backward = "sideways"

	if _, err := loadEngine(cfg, logging.Discard()); err == nil {
		t.Fatal("expected an error for an unknown backward mode")
	}
}

func TestTargetAge(t *testing.T) {
	if got, err := targetAge(0, 65); err != nil || got != 65 {
		t.Fatalf("targetAge(0, 65) = %d, %v", got, err)
	}
	if got, err := targetAge(40, 65); err != nil || got != 40 {
		t.Fatalf("targetAge(40, 65) = %d, %v", got, err)
	}
	if _, err := targetAge(cli.MaxAge+1, 65); !errors.Is(err, cli.ErrAgeRange) {
		t.Fatalf("err = %v, want ErrAgeRange", err)
	}
}

func TestReportTableShowsEveryRowsTotals(t *testing.T) {
	rows := []projection.Row{
		{Age: 30, Balance: 10000, Expenses: 6000, Incomes: 8000},
		{Age: 31, Balance: 12000, Expenses: 6000, Incomes: 8000, NetChange: 2000},
		{Age: 40, Balance: 30000, Expenses: 6000, Incomes: 8000, NetChange: 18000},
	}
	tbl := reportTable(rows)

	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tbl.Rows))
	}
	if tbl.Rows[0][4] != "-" {
		t.Fatalf("first row net = %q, want '-'", tbl.Rows[0][4])
	}
	if tbl.Rows[0][2] != "$6,000.00" || tbl.Rows[2][3] != "$8,000.00" {
		t.Fatalf("totals missing: %q, %q", tbl.Rows[0][2], tbl.Rows[2][3])
	}
	if tbl.Rows[2][4] != "+$18,000.00" {
		t.Fatalf("net across a gap = %q", tbl.Rows[2][4])
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := setupValues{
		Theme:    "tokyo-night",
		Scale:    "1.5",
		Horizon:  "70",
		Backward: "invert",
		Scenario: "  plan.yaml ",
		Watch:    false,
	}
	if err := v.apply(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.General.Horizon != 70 || cfg.General.Backward != "invert" || cfg.General.Scenario != "plan.yaml" {
		t.Fatalf("general = %+v", cfg.General)
	}
	if cfg.Appearance.Theme != "tokyo-night" || cfg.Appearance.Scale != 1.5 || cfg.TUI.WatchScenario {
		t.Fatalf("appearance = %+v tui = %+v", cfg.Appearance, cfg.TUI)
	}

	v.Scale = "3"
	if err := v.apply(&cfg); err == nil {
		t.Fatal("expected an error for an unsupported scale")
	}
}

func TestCheckScenarioPath(t *testing.T) {
	if err := checkScenarioPath(""); err != nil {
		t.Fatalf("blank path: %v", err)
	}
	if err := checkScenarioPath(writeScenario(t)); err != nil {
		t.Fatalf("existing file: %v", err)
	}
	if err := checkScenarioPath("plan.json"); err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
	if err := checkScenarioPath(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestHistoryTableChange(t *testing.T) {
	tbl := historyTable("Jane", []projection.Point{{Age: 30, Balance: 10000}, {Age: 31, Balance: 12000}})
	if tbl.Rows[0][2] != "" || tbl.Rows[1][2] != "+$2,000.00" {
		t.Fatalf("changes = %q, %q", tbl.Rows[0][2], tbl.Rows[1][2])
	}
}
