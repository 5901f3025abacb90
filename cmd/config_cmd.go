// Package cmd implements the lifesim CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/lifesim/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Horizon age:   %d\n", cfg.General.Horizon)
	fmt.Printf("    Backward mode: %s\n", cfg.General.Backward)
	if cfg.General.Scenario != "" {
		fmt.Printf("    Scenario:      %s\n", cfg.General.Scenario)
	} else {
		fmt.Println("    Scenario:      not set")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Scale: %g\n", cfg.Appearance.Scale)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:      %s\n", cfg.Server.Addr)
	fmt.Printf("    Max sessions: %d\n", cfg.Server.MaxSessions)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Watch scenario: %v\n", cfg.TUI.WatchScenario)
	fmt.Println()

	fmt.Println("  Environment overrides: LIFESIM_THEME, LIFESIM_SCENARIO, LIFESIM_SERVER_ADDR, LIFESIM_HORIZON, LIFESIM_BACKWARD")
	fmt.Println("  Run `lifesim setup` to reconfigure.")
	return nil
}
