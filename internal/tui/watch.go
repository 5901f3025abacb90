package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the scenario file must stay quiet before a
// change is reported. Editors often write a file in several steps.
const watchDebounce = 150 * time.Millisecond

// scenarioChangedMsg is sent when the watched scenario file changed.
type scenarioChangedMsg struct{}

// watchErrMsg is sent when the watcher reports an error.
type watchErrMsg struct{ err error }

// scenarioWatcher watches the directory holding the scenario file, so
// editors that replace the file by rename are still seen.
type scenarioWatcher struct {
	w    *fsnotify.Watcher
	path string
}

func newScenarioWatcher(path string) (*scenarioWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &scenarioWatcher{w: w, path: filepath.Clean(abs)}, nil
}

// relevant reports whether ev touches the scenario file in a way that can
// change its contents.
func (sw *scenarioWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != sw.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// wait blocks until the next debounced change. It returns a nil message
// once the watcher is closed.
func (sw *scenarioWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		var quiet <-chan time.Time
		for {
			select {
			case ev, ok := <-sw.w.Events:
				if !ok {
					return nil
				}
				if sw.relevant(ev) {
					quiet = time.After(watchDebounce)
				}
			case err, ok := <-sw.w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			case <-quiet:
				return scenarioChangedMsg{}
			}
		}
	}
}

func (sw *scenarioWatcher) Close() error {
	return sw.w.Close()
}
