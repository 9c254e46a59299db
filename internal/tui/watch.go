package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// storeWatcher converts filesystem activity in the store dir into a single
// debounced notification per write burst. SQLite WAL checkpoints produce
// several events per save, so raw events would thrash the reload path.
type storeWatcher struct {
	ch chan struct{}
}

func watchStoreDir(dir string) *storeWatcher {
	w := &storeWatcher{ch: make(chan struct{}, 1)}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return w
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return w
	}

	go func() {
		defer watcher.Close()
		var pending *time.Timer
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(200*time.Millisecond, func() {
					select {
					case w.ch <- struct{}{}:
					default:
					}
				})
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return w
}

// wait blocks until the next change notice; run it as a tea.Cmd and re-arm
// it from the message handler.
func (w *storeWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		<-w.ch
		return storeChangedMsg{}
	}
}
