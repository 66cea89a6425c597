// Package watch re-runs a callback when any of a set of input files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dd0wney/cluso-seqnet/pkg/logging"
)

// DefaultDelay is the quiet period required after the last change before a reload.
const DefaultDelay = 500 * time.Millisecond

// Watcher watches the parent directories of its files, so editors that save by rename
// are still seen.
type Watcher struct {
	files map[string]struct{}
	delay time.Duration
	log   logging.Logger
	fsw   *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New starts watching paths. Call Close when done.
func New(paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files: make(map[string]struct{}, len(paths)),
		delay: DefaultDelay,
		log:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.OrDefault(w.log).With(logging.Component("watch"))

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsw = fsw

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.log.Debug("watching directory", logging.Path(dir))
	}
	return w, nil
}

// Run calls onChange once per burst of changes to the watched files until ctx is
// cancelled. Callback errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !w.watched(event.Name) {
				continue
			}
			w.log.Debug("input changed", logging.Path(event.Name), logging.String("op", event.Op.String()))
			changed = event.Name
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Stop()
				select {
				case <-timer.C:
				default:
				}
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.log.Info("reloading", logging.Path(changed))
			if err := onChange(ctx); err != nil {
				w.log.Error("reload failed", logging.Error(err))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("file watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
