package service

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ─────────────────────────────────────────────────────────────
// Theme File Watcher — live reload of the exported theme
// ─────────────────────────────────────────────────────────────
//
// Designers can edit the exported theme.json in any tool; saves are picked
// up here and applied as one batch commit, so the whole import is a single
// undo step.

// ThemeWatcher watches the theme export file for external edits.
type ThemeWatcher struct {
	theme   *ThemeService
	path    string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// NewThemeWatcher creates a watcher for path. The parent directory is
// watched, not the file, so editors that replace-on-save are still seen.
func NewThemeWatcher(theme *ThemeService, path string) *ThemeWatcher {
	return &ThemeWatcher{theme: theme, path: path}
}

// Start begins watching. A watcher that cannot be created is a logged
// degradation, not a startup failure: live reload is a convenience.
func (w *ThemeWatcher) Start(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("theme watcher: disabled, cannot create watcher: %v", err)
		return
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		log.Printf("theme watcher: disabled, cannot watch %s: %v", filepath.Dir(w.path), err)
		watcher.Close()
		return
	}
	w.watcher = watcher
	w.stopCh = make(chan struct{})
	go w.loop(ctx)
}

// Stop terminates the watch loop.
func (w *ThemeWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *ThemeWatcher) loop(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.theme.ImportThemeFile(ctx, w.path); err != nil {
				log.Printf("theme watcher: import failed: %v", err)
			} else {
				log.Printf("theme watcher: applied %s", w.path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("theme watcher: %v", err)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
