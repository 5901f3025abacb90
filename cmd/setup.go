package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/config"
	"github.com/theirongolddev/lifesim/internal/scenario"
	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues are the wizard answers, kept as strings for huh inputs.
type setupValues struct {
	Theme    string
	Scale    string
	Horizon  string
	Backward string
	Scenario string
	Watch    bool
}

func runSetup(_ *cobra.Command, _ []string) error {
	// The file only; environment overrides are never written back.
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}

	v := setupValues{
		Theme:    cfg.Appearance.Theme,
		Scale:    strconv.FormatFloat(cfg.Appearance.Scale, 'g', -1, 64),
		Horizon:  strconv.Itoa(cfg.General.Horizon),
		Backward: cfg.General.Backward,
		Scenario: cfg.General.Scenario,
		Watch:    cfg.TUI.WatchScenario,
	}

	if err := newSetupForm(&v).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if err := v.apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `lifesim setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func newSetupForm(v *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All)+1)
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}
	scaleOpts := make([]huh.Option[string], 0, len(config.ScaleOptions))
	for _, s := range config.ScaleOptions {
		label := fmt.Sprintf("%.0f%%", s*100)
		scaleOpts = append(scaleOpts, huh.NewOption(label, strconv.FormatFloat(s, 'g', -1, 64)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to lifesim!").
				Description("Defaults for every command. Values can be overridden with LIFESIM_* variables."),
			huh.NewInput().
				Title("Default scenario file").
				Description(".toml, .yaml or .yml. Leave blank to enter a person each time.").
				Value(&v.Scenario).
				Validate(checkScenarioPath),
			huh.NewInput().
				Title("Horizon age").
				Description("Default target age for history, analytics and the dashboard.").
				Value(&v.Horizon).
				Validate(checkHorizon),
			huh.NewSelect[string]().
				Title("Ages before the current age").
				Options(
					huh.NewOption("Show the current balance (fallback)", "fallback"),
					huh.NewOption("Walk the years back (invert)", "invert"),
				).
				Value(&v.Backward),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Chart scale").
				Options(scaleOpts...).
				Value(&v.Scale),
			huh.NewConfirm().
				Title("Reload the scenario in the dashboard when the file changes?").
				Value(&v.Watch),
		),
	)
}

func checkScenarioPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := scenario.FormatFor(s); err != nil {
		return err
	}
	if _, err := os.Stat(s); err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	return nil
}

func checkHorizon(s string) error {
	h, err := cli.ParseAge(s)
	if err != nil {
		return err
	}
	if h == 0 {
		return errors.New("horizon must be positive")
	}
	return nil
}

// apply copies validated answers into cfg.
func (v setupValues) apply(cfg *config.Config) error {
	h, err := cli.ParseAge(v.Horizon)
	if err != nil {
		return fmt.Errorf("horizon: %w", err)
	}
	scale, err := strconv.ParseFloat(v.Scale, 64)
	if err != nil || !config.ValidScale(scale) {
		return fmt.Errorf("scale must be one of %v", config.ScaleOptions)
	}

	cfg.General.Horizon = h
	cfg.General.Backward = v.Backward
	cfg.General.Scenario = strings.TrimSpace(v.Scenario)
	cfg.Appearance.Theme = v.Theme
	cfg.Appearance.Scale = scale
	cfg.TUI.WatchScenario = v.Watch
	return nil
}
