// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package entities

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchHandler is called with the set of watched files that changed
// within one debounce window.
type WatchHandler func(paths []string)

// Watcher watches a fixed set of files and invokes a handler after
// changes settle. Changes are debounced so that an editor's
// write-rename dance or a burst of saves triggers one invocation, not
// several.
//
// The parent directory of each file is watched rather than the file
// itself, so files that are replaced by rename (the common atomic-save
// pattern) keep being observed.
type Watcher struct {
	files    map[string]struct{}
	watcher  *fsnotify.Watcher
	handler  WatchHandler
	debounce time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// DefaultDebounceWindow is how long the watcher waits for further
// changes before invoking the handler.
const DefaultDebounceWindow = 500 * time.Millisecond

// NewWatcher creates a watcher over the given files. A zero debounce
// selects DefaultDebounceWindow.
func NewWatcher(files []string, debounce time.Duration, handler WatchHandler) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if handler == nil {
		return nil, fmt.Errorf("nil watch handler")
	}
	if debounce <= 0 {
		debounce = DefaultDebounceWindow
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		watcher:  fw,
		handler:  handler,
		debounce: debounce,
		done:     make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Start runs the watch loop until the context is canceled or Stop is
// called. It blocks; run it on its own goroutine if the caller has
// other work.
func (w *Watcher) Start(ctx context.Context) {
	// Lazily armed debounce timer. pending collects the files seen
	// since the last handler invocation.
	var timer *time.Timer
	var timerC <-chan time.Time
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.files[abs]; !watched {
				continue
			}
			pending[abs] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			changed := make([]string, 0, len(pending))
			for f := range pending {
				changed = append(changed, f)
			}
			pending = make(map[string]struct{})
			timer = nil
			timerC = nil
			w.handler(changed)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// fsnotify errors are transient on the platforms we care
			// about; the loop keeps running.
		}
	}
}

// Stop ends the watch loop and releases the underlying watcher. Safe to
// call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}
