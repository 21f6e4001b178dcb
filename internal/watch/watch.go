// Package watch re-runs a callback when a file changes.
//
// The file's directory is watched rather than the file itself so that
// editors which replace a file by rename keep triggering events. Events
// within the debounce window coalesce into one callback.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Path is the file to watch.
	Path string

	// Debounce is the quiet period after the last event before OnChange fires.
	Debounce time.Duration

	// OnChange runs after each burst of writes. Errors are logged and do not
	// stop the watcher.
	OnChange func(ctx context.Context) error

	Logger *log.Logger
}

// Watcher fires Config.OnChange when Config.Path changes.
type Watcher struct {
	cfg     Config
	fsw     *fsnotify.Watcher
	abs     string
	started atomic.Bool
}

// New starts watching the directory containing cfg.Path.
func New(cfg Config) (*Watcher, error) {
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", cfg.Path, err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{cfg: cfg, fsw: fsw, abs: abs}, nil
}

// Run processes events until ctx is canceled. It returns nil on
// cancellation. Run may be called once.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}
	defer w.fsw.Close()

	var (
		mu      sync.Mutex
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		// A run still in progress absorbs this burst; reschedule so the
		// latest write is not lost.
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			timer.Reset(w.cfg.Debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx); err != nil {
				w.cfg.Logger.Error("rebuild failed", "path", w.cfg.Path, "err", err)
			}
		}
	}

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
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: event channel closed")
			}
			if !w.relevant(evt) {
				continue
			}
			w.cfg.Logger.Debug("change detected", "op", evt.Op.String())

			mu.Lock()
			if timer == nil {
				timer = time.AfterFunc(w.cfg.Debounce, fire)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: error channel closed")
			}
			w.cfg.Logger.Warn("fsnotify error", "err", err)
		}
	}
}

// relevant reports whether evt modified the watched file.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	name, err := filepath.Abs(evt.Name)
	if err != nil || name != w.abs {
		return false
	}
	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename)
}
