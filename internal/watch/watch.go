// Package watch observes the active adapter's configuration paths and
// reports external changes, debounced so editors that write in bursts
// produce one notification instead of dozens.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/logging"
	"github.com/thoreinstein/loadout/internal/platform"
	"github.com/thoreinstein/loadout/internal/tool"
)

// DefaultDebounce is the quiet period required before a change is reported.
const DefaultDebounce = 250 * time.Millisecond

// Event reports that something under a watched path changed.
type Event struct {
	// Path is the file the filesystem reported.
	Path string
}

// Watcher observes the configuration paths of one adapter.
type Watcher struct {
	adapter  platform.Adapter
	debounce time.Duration
	log      *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a Watcher for the adapter's paths.
func New(adapter platform.Adapter, opts ...Option) *Watcher {
	w := &Watcher{
		adapter:  adapter,
		debounce: DefaultDebounce,
		log:      logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// paths collects every watchable path across all scopes. Files that do not
// exist yet are watched through their parent directory, so a config file
// created later is still noticed.
func (w *Watcher) paths() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	for _, scope := range tool.Scopes() {
		for _, p := range w.adapter.WatchPaths(scope) {
			if _, err := os.Stat(p); err == nil {
				add(p)
				continue
			}
			if dir := filepath.Dir(p); dir != "" {
				if _, err := os.Stat(dir); err == nil {
					add(dir)
				}
			}
		}
	}
	return out
}

// Run watches until ctx is cancelled, invoking onChange once per debounced
// burst of filesystem activity. onChange runs on the watcher's goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(Event)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating filesystem watcher")
	}
	defer fw.Close()

	watched := 0
	for _, p := range w.paths() {
		if err := fw.Add(p); err != nil {
			w.log.Warn("cannot watch path", "path", p, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return errors.Newf("no watchable configuration paths for %s", w.adapter.Name())
	}
	w.log.Info("watching configuration", "adapter", w.adapter.Name(), "paths", watched)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending Event
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = Event{Path: ev.Name}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			onChange(pending)
			timer = nil
			timerC = nil

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}
