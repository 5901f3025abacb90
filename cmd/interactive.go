package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/projection"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"menu"},
	Short:   "Numbered menu for adding items and projecting balances",
	RunE:    runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(_ *cobra.Command, _ []string) error {
	cfg, log, e, err := prepare("interactive")
	prompt := cli.NewPrompter(os.Stdin, os.Stdout)

	// Ctrl-C cancels the prompt being answered.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case errors.Is(err, errNoScenario):
		fmt.Println("Welcome to Life Simulator!")
		p, perr := cli.PromptPerson(ctx, prompt)
		if errors.Is(perr, cli.ErrInputClosed) || errors.Is(perr, context.Canceled) {
			return nil
		}
		if perr != nil {
			return perr
		}
		mode, merr := projection.ParseBackwardMode(cfg.General.Backward)
		if merr != nil {
			return merr
		}
		e = projection.New(p, projection.WithBackwardMode(mode))
	case err != nil:
		return err
	}

	if err := cli.NewMenu(e, prompt, os.Stdout, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
