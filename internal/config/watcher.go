// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// watcher.go - live reload of the config file.

package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow absorbs the burst of events an editor save produces into a
// single reload.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the configuration when the file changes on disk and hands
// the fresh config to the registered callback.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching the config file at path. onChange is called from the
// watcher goroutine with each successfully reloaded config; parse failures
// are silently skipped so a half-saved file cannot wipe a running session's
// settings.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: atomic saves replace the inode and
	// a file-level watch would go stale after the first write.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	go w.run(path, onChange)
	return w, nil
}

func (w *Watcher) run(path string, onChange func(*Config)) {
	var timer *time.Timer
	var timerC <-chan time.Time

	reload := func() {
		cfg, err := LoadFromPath(path)
		if err != nil {
			return
		}
		SetGlobal(cfg)
		onChange(cfg)
	}

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			reload()

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
