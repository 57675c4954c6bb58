// Package watch re-runs a bake whenever one of its input files changes.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrClosed is returned when a closed Watcher is used.
var ErrClosed = errors.New("watcher already closed")

// Func is invoked after a batch of changes has settled.
type Func func(ctx context.Context) error

// Watcher debounces file system events for a set of files.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	files  map[string]struct{}
	dirs   map[string]struct{}
	closed bool
}

// New creates a Watcher. A nil log discards output.
func New(debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fs:       fsw,
		debounce: debounce,
		log:      log,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Add starts watching the named files. The parent directory is watched so
// that editors which replace a file on save still trigger a run.
func (w *Watcher) Add(names ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	for _, name := range names {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; !ok {
			if err := w.fs.Add(dir); err != nil {
				return err
			}
			w.dirs[dir] = struct{}{}
		}
		w.files[abs] = struct{}{}
	}
	return nil
}

// Files returns the number of watched files.
func (w *Watcher) Files() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.files)
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// Run blocks until ctx is done, calling fn once per settled batch of
// writes to a watched file. Errors from fn are logged and do not stop
// the loop.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.mu.Unlock()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case e, ok := <-w.fs.Events:
			if !ok {
				return ErrClosed
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 || !w.watched(e.Name) {
				continue
			}
			w.log.Debug("change detected", zap.String("file", e.Name), zap.Stringer("op", e.Op))
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrClosed
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			start := time.Now()
			if err := fn(ctx); err != nil {
				w.log.Error("rebake failed", zap.Error(err))
				continue
			}
			w.log.Info("rebaked", zap.Duration("took", time.Since(start)))
		}
	}
}

// Close stops watching all files.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fs.Close()
}
