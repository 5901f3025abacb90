package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/lifesim/internal/logging"
	"github.com/theirongolddev/lifesim/internal/tui"
	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The dashboard owns the terminal; nothing may log to it.
	log := logging.Discard()

	// A missing scenario opens the person form instead.
	e, err := loadEngine(cfg, log)
	if err != nil && !errors.Is(err, errNoScenario) {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return tui.Run(ctx, tui.Options{
		Engine:   e,
		Scenario: cfg.General.Scenario,
		Config:   cfg,
		Logger:   log,
	})
}
