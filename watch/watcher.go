// Package watch re-runs the pipeline for images dropped into a directory
// after the initial batch.
package watch

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// minTick bounds how often pending files are checked.
const minTick = 10 * time.Millisecond

// Watcher monitors one directory for new or rewritten files
type Watcher struct {
	dir      string
	debounce time.Duration
	accept   func(path string) bool
	handle   func(path string)
	log      *zap.Logger
	watcher  *fsnotify.Watcher

	// pending maps a path to the time of its latest event.
	pending map[string]time.Time
}

// Config configures a Watcher.
type Config struct {
	// Dir is the directory to watch (non-recursive).
	Dir string
	// Debounce is how long a file must be quiet before it is handled.
	Debounce time.Duration
	// Accept filters event paths; nil accepts every path.
	Accept func(path string) bool
	// Handle is called once per settled file, on the Run goroutine.
	Handle func(path string)
	// Log receives diagnostics; nil disables logging.
	Log *zap.Logger
}

// NewWatcher creates a new file watcher
func NewWatcher(cfg Config) (*Watcher, error) {
	if cfg.Handle == nil {
		return nil, errors.New("watch handler is required")
	}
	if cfg.Accept == nil {
		cfg.Accept = func(string) bool { return true }
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fsWatcher.Add(cfg.Dir); err != nil {
		fsWatcher.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", cfg.Dir)
	}

	return &Watcher{
		dir:      cfg.Dir,
		debounce: cfg.Debounce,
		accept:   cfg.Accept,
		handle:   cfg.Handle,
		log:      cfg.Log,
		watcher:  fsWatcher,
		pending:  make(map[string]time.Time),
	}, nil
}

// Run processes events until ctx is cancelled, then closes the watcher.
// Files are handled one at a time, in path order when several settle together.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	tick := w.debounce / 2
	if tick < minTick {
		tick = minTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.log.Info("watching for new images", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.accept(event.Name) {
		return
	}
	w.log.Debug("file event", zap.String("file", event.Name), zap.String("op", event.Op.String()))
	w.pending[event.Name] = time.Now()
}

// flush handles every pending file that has been quiet for the debounce period.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		delete(w.pending, path)

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			// Removed or replaced by a directory before it settled.
			continue
		}
		w.handle(path)
	}
}
