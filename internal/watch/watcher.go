// Package watch re-runs validation when a local spec or mock file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyballingall/swagger-mock-validator/internal/fs"
)

const debounceDuration = 100 * time.Millisecond

// Event describes a change to one of the watched files.
type Event struct {
	Path string
}

// Watcher monitors a set of files for changes.
type Watcher struct {
	files  map[string]struct{}
	dirs   []string
	logger *slog.Logger
	Ready  chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// New creates a Watcher for the given files, which must exist.
func New(paths []string, logger *slog.Logger) (*Watcher, error) {
	w := &Watcher{
		files:      make(map[string]struct{}, len(paths)),
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		canonical, err := fs.CanonicalPath(p)
		if err != nil {
			return nil, fmt.Errorf("cannot watch %s: %w", p, err)
		}
		w.files[canonical] = struct{}{}
		dirs[filepath.Dir(canonical)] = struct{}{}
	}
	for d := range dirs {
		w.dirs = append(w.dirs, d)
	}
	sort.Strings(w.dirs)

	return w, nil
}

// Watch calls callback whenever a watched file is written or replaced.
// Bursts of events are debounced. It blocks until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, callback func(Event)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// fsnotify watches directories so that files replaced by editors keep
	// being observed.
	for _, d := range w.dirs {
		if err := watcher.Add(d); err != nil {
			return err
		}
	}

	w.logger.Info("Watching for changes", "files", len(w.files))
	if w.Ready != nil {
		close(w.Ready)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			ev := w.handleEvent(event)
			if ev == nil {
				continue
			}
			w.logger.Debug("File changed", "path", ev.Path, "op", event.Op.String())
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDuration, func() {
				callback(*ev)
			})
			mu.Unlock()
		}
	}
}

// handleEvent returns an Event when the fsnotify event concerns a watched file.
func (w *Watcher) handleEvent(event fsnotify.Event) *Event {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return nil
	}
	path := filepath.Clean(event.Name)
	if _, ok := w.files[path]; !ok {
		return nil
	}
	return &Event{Path: path}
}
