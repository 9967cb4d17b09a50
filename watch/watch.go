// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package watch reports changes to a document file so it can be reloaded.
//
// The watcher observes the file's directory rather than the file itself,
// so editors that save by writing a temporary file and renaming it over
// the original are still noticed. Bursts of events are coalesced: one
// notification is delivered after the file has been quiet for the
// debounce interval.
//
// The watcher never touches a canvas. Callers receive on Changes and
// reload on their own goroutine, which keeps document loading serialized
// with input handling.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gogpu/inkpage"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned by Close when the watcher was already closed.
var ErrClosed = errors.New("watch: watcher closed")

// Watcher delivers a value on Changes after the watched file was
// written, created or replaced.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	changes  chan struct{}
	cancel   context.CancelFunc
	done     chan struct{}

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// New starts watching path. The watcher stops when ctx is cancelled or
// Close is called. A non-positive debounce selects DefaultDebounce.
func New(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: bad path %q: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch: watch dir %q: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:     abs,
		debounce: debounce,
		fs:       fw,
		changes:  make(chan struct{}, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.loop(ctx)
	inkpage.Logger().Info("watch: watching", "path", abs, "debounce", debounce)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Changes returns the notification channel. At most one notification is
// buffered; further changes before it is received are merged into it.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs != w.path {
				continue
			}
			w.schedule()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			inkpage.Logger().Warn("watch: error", "path", w.path, "err", err)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	inkpage.Logger().Debug("watch: file changed", "path", w.path)
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.cancel()
	err := w.fs.Close()
	<-w.done
	return err
}
