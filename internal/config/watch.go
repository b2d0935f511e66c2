// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     config
// Description: Configuration file watching for hot reload
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called with the freshly loaded configuration after the
// file on disk changes.
type ChangeHandler func(cfg Config)

// Watcher reloads the configuration file when it changes on disk and
// notifies registered handlers. Editors often replace files via rename, so
// the parent directory is watched rather than the file itself.
type Watcher struct {
	mu       sync.Mutex
	path     string
	current  Config
	handlers []ChangeHandler
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

// NewWatcher creates a watcher for the given config file path. The initial
// configuration is loaded immediately.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:    path,
		current: cfg,
		done:    make(chan struct{}),
	}, nil
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current.Snapshot()
}

// OnChange registers a handler invoked after each successful reload.
func (w *Watcher) OnChange(h ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins watching. It is a no-op when no config path is set.
func (w *Watcher) Start() error {
	if w.path == "" {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	go w.loop(fsw)
	return nil
}

// Stop ends watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	if fsw != nil {
		close(w.done)
		fsw.Close()
	}
}

func (w *Watcher) loop(fsw *fsnotify.Watcher) {
	// Debounce bursts of write events from editors.
	var pending *time.Timer

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(200*time.Millisecond, w.reload)

		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		return
	}

	w.mu.Lock()
	w.current = cfg
	handlers := append([]ChangeHandler(nil), w.handlers...)
	w.mu.Unlock()

	for _, h := range handlers {
		h(cfg.Snapshot())
	}
}
