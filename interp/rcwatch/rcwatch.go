// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

// Package rcwatch watches cerf's rc file for changes and signals a
// running shell to re-source it, so editing .cerfrc in another window
// takes effect without restarting the session.
package rcwatch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies of changes to an rc file on disk. It never touches a
// Runner itself: Runner is not safe for concurrent use, so the actual
// re-sourcing has to happen on the shell's own goroutine, which drains
// Changed() between prompts.
type Watcher struct {
	fsw     *fsnotify.Watcher
	path    string
	changed chan struct{}
}

// New starts watching path's parent directory (fsnotify watches
// directories, not bare files, so it survives editors that replace the
// file via rename-on-save) for changes to path itself.
func New(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("rcwatch: %w", err)
	}
	return &Watcher{fsw: fsw, path: path, changed: make(chan struct{}, 1)}, nil
}

// Changed reports one pending notification per batch of writes: a
// buffered, coalescing signal that the rc file changed on disk. A
// receiver should re-source the file and keep draining until the channel
// is empty, rather than assume one send means one change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Run blocks, signaling Changed() every time path changes, until ctx is
// done or the underlying fsnotify watcher is closed. Errors reading
// individual events are reported via onError and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, onError func(error)) {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
