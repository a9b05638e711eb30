// Package watcher provides file watching for configuration live reload.
//
// The watcher monitors a configuration file for changes and triggers
// reload callbacks when modifications are detected. Because most
// editors replace files atomically (write to a temp file, then
// rename), the watch is placed on the containing directory and events
// are filtered down to the target file.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed indicates an operation on a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Handler is called after the watched file changes, once the change
// has settled past the debounce window.
type Handler func(path string)

// Watcher monitors a single configuration file.
type Watcher struct {
	mu sync.Mutex

	fsw *fsnotify.Watcher

	// Absolute path of the watched file.
	path string

	// Handlers to call on file changes.
	handlers []Handler

	// Debounce window for rapid successive writes.
	debounce time.Duration

	closed  bool
	closeCh chan struct{}
	done    sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher. Start must be called before any events are
// delivered.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: 100 * time.Millisecond,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// OnChange registers a handler invoked after each settled change.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins watching the given file.
func (w *Watcher) Start(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	w.path = absPath

	// Watch the directory so atomic replaces are still seen.
	if err := w.fsw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	w.done.Add(1)
	go w.loop()
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.done.Wait()
	return err
}

// loop reads fsnotify events, filters them to the watched file, and
// fires handlers once a change settles.
func (w *Watcher) loop() {
	defer w.done.Done()

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.fire()

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// relevant reports whether the event concerns the watched file and is
// a content-changing operation.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	w.mu.Lock()
	path := w.path
	w.mu.Unlock()

	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) fire() {
	w.mu.Lock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	path := w.path
	w.mu.Unlock()

	for _, h := range handlers {
		h(path)
	}
}
