// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// Updater is the narrow capability the Change Notifier (C6) needs back
// from the Engine: invalidate a file, and refresh its suggestion when its
// editor regains focus.
type Updater interface {
	Invalidate(fileKey FileKey)
	EnsureUpToDateSuggested(fileKey FileKey)
}

// DocumentLayer pushes file-changed events from an editor's document model
// into the Change Notifier.
type DocumentLayer interface {
	FileChanged(fileKey FileKey)
}

// PathResolver maps a raw OS path reported by a filesystem watch into the
// FileKey the rest of the engine tracks, or reports ok=false for paths the
// engine doesn't care about.
type PathResolver interface {
	Resolve(path string) (fileKey FileKey, ok bool)
}

// ChangeNotifier is the Change Notifier (C6): it funnels DocumentLayer
// events into Updater.Invalidate.
type ChangeNotifier struct {
	updater Updater
}

// NewChangeNotifier builds a ChangeNotifier around updater.
func NewChangeNotifier(updater Updater) *ChangeNotifier {
	return &ChangeNotifier{updater: updater}
}

// FileChanged implements DocumentLayer, forwarding into Updater.Invalidate.
func (n *ChangeNotifier) FileChanged(fileKey FileKey) {
	n.updater.Invalidate(fileKey)
}

// FocusGained implements the "ensure suggested up-to-date" hook called
// when the editor for fileKey gains focus.
func (n *ChangeNotifier) FocusGained(fileKey FileKey) {
	n.updater.EnsureUpToDateSuggested(fileKey)
}

// FSWatchNotifier is a concrete DocumentLayer/ChangeNotifier pairing (A6)
// backed by fsnotify, for hosts with no editor document model of their own
// (a headless batch tool, an in-process CLI). It resolves a watched path to
// a FileKey via resolver and invalidates the corresponding file on any
// write/create/rename event, debounced the way the pack's config-reload
// watchers debounce rapid successive writes from an editor's save.
//
// Grounded on the fsnotify watch-loop/debounce pattern used by the pack's
// own fsnotify-backed config reloader (directory-level watch to also catch
// atomic replace writes, a timer reset on every matching event).
type FSWatchNotifier struct {
	watcher  *fsnotify.Watcher
	notifier *ChangeNotifier
	resolver PathResolver
	debounce time.Duration
	done     chan struct{}
}

// NewFSWatchNotifier creates the fsnotify watcher and adds dir to it.
// Start must be called to begin processing events.
func NewFSWatchNotifier(dir string, notifier *ChangeNotifier, resolver PathResolver, debounce time.Duration) (*FSWatchNotifier, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()

		return nil, err
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	return &FSWatchNotifier{
		watcher:  watcher,
		notifier: notifier,
		resolver: resolver,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Start begins the watch loop in a background goroutine.
func (n *FSWatchNotifier) Start() {
	go n.loop()
}

// Close stops the watch loop and the underlying fsnotify watcher.
func (n *FSWatchNotifier) Close() error {
	close(n.done)

	return n.watcher.Close()
}

func (n *FSWatchNotifier) loop() {
	timers := make(map[FileKey]*time.Timer)

	for {
		select {
		case <-n.done:
			for _, t := range timers {
				t.Stop()
			}

			return

		case event, ok := <-n.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			fileKey, ok := n.resolver.Resolve(event.Name)
			if !ok {
				continue
			}

			if t, scheduled := timers[fileKey]; scheduled {
				t.Stop()
			}
			timers[fileKey] = time.AfterFunc(n.debounce, func() {
				n.notifier.FileChanged(fileKey)
			})

		case _, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
