// Package watcher follows the session's selected input paths and reports
// paths that disappear from disk, so the owning context can clear the
// matching selection.
package watcher

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher wraps an fsnotify watcher over the current input path set.
type Watcher struct {
	fsw     *fsnotify.Watcher
	removed chan string

	mu    sync.Mutex
	paths map[string]bool
}

// New creates a watcher with an empty path set and starts its event loop.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		removed: make(chan string, 8),
		paths:   make(map[string]bool),
	}
	go w.loop()
	return w, nil
}

// Removed returns the channel carrying paths that disappeared from disk.
func (w *Watcher) Removed() <-chan string {
	return w.removed
}

// SetPaths replaces the watched path set. Empty strings are skipped, as are
// paths that cannot be watched (already deleted inputs report nothing more).
func (w *Watcher) SetPaths(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p != "" {
			next[p] = true
		}
	}

	for p := range w.paths {
		if !next[p] {
			w.fsw.Remove(p)
			delete(w.paths, p)
		}
	}
	for p := range next {
		if w.paths[p] {
			continue
		}
		if err := w.fsw.Add(p); err != nil {
			continue
		}
		w.paths[p] = true
	}
}

// Close stops the watcher. The Removed channel stays open but quiet.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			watched := w.paths[event.Name]
			if watched {
				// The kernel watch died with the file; rewatching happens
				// when the user selects a path again.
				delete(w.paths, event.Name)
			}
			w.mu.Unlock()
			if watched {
				select {
				case w.removed <- event.Name:
				default:
				}
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}
