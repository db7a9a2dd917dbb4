// Package watch reruns generation when descriptor source files change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last filesystem event
// before a run starts. Editors fire bursts of writes for a single save.
const DefaultDebounce = 250 * time.Millisecond

// RunFunc performs one generation run.
type RunFunc func(ctx context.Context) error

// Watcher rebuilds on changes under a root directory. At most one run is
// in flight at a time; events arriving during a run coalesce into a single
// pending rerun, regardless of how many there were.
type Watcher struct {
	Root     string
	Debounce time.Duration
	Logger   *slog.Logger

	// IgnoreDirs are directory names skipped entirely, e.g. the output
	// location and dependency trees.
	IgnoreDirs []string

	run RunFunc

	mu       sync.Mutex
	inFlight bool
	pending  bool
}

// New returns a watcher over root that calls run on changes.
func New(root string, run RunFunc) *Watcher {
	return &Watcher{
		Root:       root,
		Debounce:   DefaultDebounce,
		Logger:     slog.Default(),
		IgnoreDirs: []string{".git", "node_modules", "__pycache__", ".fluid"},
		run:        run,
	}
}

// Watch blocks until ctx is cancelled, triggering a run for every settled
// burst of changes. The initial run happens immediately.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.Root); err != nil {
		return err
	}

	w.trigger(ctx)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			// New directories need their own watch before anything inside
			// them is visible.
			if event.Op.Has(fsnotify.Create) {
				if err := w.addRecursive(fsw, event.Name); err != nil {
					w.Logger.Debug("watch add failed", "path", event.Name, "err", err)
				}
			}
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch error", "err", err)

		case <-timer.C:
			w.trigger(ctx)
		}
	}
}

// trigger starts a run unless one is already in flight, in which case a
// single rerun is queued for when it finishes.
func (w *Watcher) trigger(ctx context.Context) {
	w.mu.Lock()
	if w.inFlight {
		w.pending = true
		w.mu.Unlock()
		return
	}
	w.inFlight = true
	w.mu.Unlock()

	go func() {
		for {
			start := time.Now()
			if err := w.run(ctx); err != nil {
				w.Logger.Error("generation failed", "err", err)
			} else {
				w.Logger.Info("generation complete", "duration", time.Since(start).Round(time.Millisecond))
			}

			w.mu.Lock()
			if !w.pending || ctx.Err() != nil {
				w.inFlight = false
				w.mu.Unlock()
				return
			}
			w.pending = false
			w.mu.Unlock()
		}
	}()
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, dir := range w.IgnoreDirs {
		if base == dir {
			return true
		}
		if strings.Contains(filepath.ToSlash(path), "/"+dir+"/") {
			return true
		}
	}
	return false
}
