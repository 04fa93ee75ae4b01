// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// FILE WATCHER
// =============================================================================

// debounceWindow collapses the editor write/rename/chmod burst that a
// single save produces into one reload.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads configuration when the config file changes on disk.
type Watcher struct {
	fw       *fsnotify.Watcher
	onChange func(*Config)

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Watch starts watching the config directory and invokes onChange with
// the freshly loaded configuration after each change. The callback runs
// on the watcher goroutine.
func Watch(onChange func(*Config)) (*Watcher, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return WatchDir(dir, onChange)
}

// WatchDir watches a specific directory for config file changes.
func WatchDir(dir string, onChange func(*Config)) (*Watcher, error) {
	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:       fw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !isConfigFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := Load()
			if err != nil {
				continue
			}
			w.onChange(cfg)

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, "config.") &&
		(strings.HasSuffix(base, ".toml") || strings.HasSuffix(base, ".json"))
}
