// Package assets watches the asset directory and turns file changes into
// reload requests for the render loop.
package assets

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher coalesces change events under one directory into reload requests.
// It never touches GPU state: the render loop polls Pending on its own thread.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu     sync.Mutex
	filter func(name string) bool

	requests chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewWatcher starts watching dir. Only files for which filter returns true
// trigger a request; a nil filter accepts everything. Bursts of events within
// debounce of each other produce a single request.
func NewWatcher(dir string, debounce time.Duration, filter func(name string) bool, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %q: %w", dir, err)
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		watcher:  fw,
		logger:   logger,
		debounce: debounce,
		filter:   filter,
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// FileSet returns a filter accepting only the given base names.
func FileSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool {
		return set[filepath.Base(name)]
	}
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.accepts(event.Name) {
				continue
			}
			w.logger.Debug("asset changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.requests <- struct{}{}:
			default:
				// one request already pending
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("asset watcher error", "error", err)
		}
	}
}

// SetFilter replaces the filter for events that arrive from now on.
func (w *Watcher) SetFilter(filter func(name string) bool) {
	if filter == nil {
		filter = func(string) bool { return true }
	}
	w.mu.Lock()
	w.filter = filter
	w.mu.Unlock()
}

func (w *Watcher) accepts(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filter(name)
}

// Requests delivers at most one pending reload request at a time.
func (w *Watcher) Requests() <-chan struct{} {
	return w.requests
}

// Pending consumes a reload request if one is waiting.
func (w *Watcher) Pending() bool {
	select {
	case <-w.requests:
		return true
	default:
		return false
	}
}

// Close stops the watcher goroutine and releases the OS watch.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
