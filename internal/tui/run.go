package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard on the alternate screen and blocks until it
// exits or ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	app := NewApp(opts)
	if opts.Scenario != "" && opts.Config.TUI.WatchScenario {
		w, err := newScenarioWatcher(opts.Scenario)
		if err != nil {
			app.log.Warn("scenario watch disabled", "err", err)
		} else {
			app.watcher = w
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if a, ok := final.(App); ok && a.watcher != nil {
		_ = a.watcher.Close()
	} else if app.watcher != nil {
		_ = app.watcher.Close()
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
