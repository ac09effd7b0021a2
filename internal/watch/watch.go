// Package watch reports edits to a set of input files, debounced.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce is how long the watcher waits for more events before
// reporting a batch.
const DefaultDebounce = 150 * time.Millisecond

// Handler receives the sorted, deduplicated paths changed in one batch.
// It runs on the watcher goroutine.
type Handler func(paths []string)

// Watcher watches individual files. It watches their directories, so
// editors that save by rename are seen too.
type Watcher struct {
	w        *fsnotify.Watcher
	files    map[string]bool
	handler  Handler
	debounce time.Duration
	log      *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New watches files; empty paths are skipped.
func New(files []string, handler Handler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch: create")
	}
	w := &Watcher{
		w:        fw,
		files:    map[string]bool{},
		handler:  handler,
		debounce: DefaultDebounce,
		log:      slog.Default(),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	dirs := map[string]bool{}
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch: %s", f)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch: add %s", d)
		}
	}
	return w, nil
}

// Run delivers batches until ctx is done or Stop is called.
func (w *Watcher) Run(ctx context.Context) {
	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			path := filepath.Clean(ev.Name)
			if !w.files[path] || ev.Op == fsnotify.Chmod {
				continue
			}
			pending[path] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)
		case <-fire:
			timer, fire = nil, nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			w.log.Debug("inputs changed", "paths", paths)
			if w.handler != nil {
				w.handler(paths)
			}
		}
	}
}

// Stop ends Run and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.w.Close()
	})
}
