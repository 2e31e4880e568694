// Package watcher provides file watching with debouncing using fsnotify.
package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Event is one observed filesystem change.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Callback receives the events accumulated during one debounce interval.
type Callback func(events []Event)

// Watcher batches rapid filesystem events and invokes the callback once
// per quiet period.
type Watcher struct {
	fs       *fsnotify.Watcher
	callback Callback
	debounce time.Duration

	mu      sync.Mutex
	pending []Event
	timer   *time.Timer
	closed  bool

	done chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the quiet period before the callback fires.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher delivering debounced events to callback.
func New(callback Callback, opts ...Option) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fs,
		callback: callback,
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.loop()
	return w, nil
}

// Add starts watching a file or directory.
func (w *Watcher) Add(path string) error {
	return w.fs.Add(path)
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.enqueue(Event{Path: ev.Name, Op: ev.Op})
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) enqueue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending = append(w.pending, ev)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	events := w.pending
	w.pending = nil
	closed := w.closed
	w.mu.Unlock()

	if closed || len(events) == 0 || w.callback == nil {
		return
	}
	w.callback(events)
}
