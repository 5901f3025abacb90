package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/lifesim/internal/config"
	"github.com/theirongolddev/lifesim/internal/logging"
	"github.com/theirongolddev/lifesim/internal/projection"
	"github.com/theirongolddev/lifesim/internal/scenario"

	"github.com/spf13/cobra"
)

var (
	flagScenario string
	flagBackward string
	flagVerbose  bool
	flagEnvFile  string
)

// errNoScenario is returned by commands that need a person to project.
var errNoScenario = errors.New("no scenario: pass --scenario, set LIFESIM_SCENARIO, or run `lifesim interactive`")

var rootCmd = &cobra.Command{
	Use:   "lifesim",
	Short: "Personal balance projection",
	Long:  "Project a person's balance over their lifetime from capital, recurring expenses and incomes.",
	RunE:  runStatus,

	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagScenario, "scenario", "f", "", "Scenario file (.toml, .yaml, .yml)")
	rootCmd.PersistentFlags().StringVar(&flagBackward, "backward", "", "Projection before the current age: fallback or invert")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Environment file loaded before the config")
}

// loadConfig returns the effective configuration: file, .env and
// LIFESIM_* variables, then flags.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return config.DefaultConfig(), err
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagScenario != "" {
		cfg.General.Scenario = flagScenario
	}
	if flagBackward != "" {
		cfg.General.Backward = flagBackward
	}
	return cfg, nil
}

func newLogger(component string) *slog.Logger {
	lc := logging.DefaultConfig()
	lc.Component = component
	if flagVerbose {
		lc.Level = slog.LevelDebug
	}
	return logging.New(lc)
}

// loadEngine builds the engine from the configured scenario. It returns
// errNoScenario when none is set.
func loadEngine(cfg config.Config, log *slog.Logger) (*projection.Engine, error) {
	if cfg.General.Scenario == "" {
		return nil, errNoScenario
	}
	mode, err := projection.ParseBackwardMode(cfg.General.Backward)
	if err != nil {
		return nil, err
	}

	sc, err := scenario.Load(cfg.General.Scenario)
	if err != nil {
		return nil, err
	}
	e, err := sc.Build(projection.WithBackwardMode(mode))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.General.Scenario, err)
	}

	p := e.Person()
	log.Debug("scenario loaded",
		"path", cfg.General.Scenario,
		"person", p.Name,
		"expenses", len(p.Expenses),
		"incomes", len(p.Incomes),
		"backward", mode)
	return e, nil
}

// prepare is the shared prologue of the commands that project a scenario.
func prepare(component string) (config.Config, *slog.Logger, *projection.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, nil, err
	}
	log := newLogger(component)
	e, err := loadEngine(cfg, log)
	return cfg, log, e, err
}
