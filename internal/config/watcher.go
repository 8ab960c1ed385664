package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce collapses the burst of events an editor produces
// when saving a file.
const DefaultReloadDebounce = 100 * time.Millisecond

// ReloadFunc receives the re-loaded configuration, or the error that
// prevented loading it.
type ReloadFunc func(cfg *Config, err error)

// Watcher reloads a config file when it changes.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	onReload ReloadFunc
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching path. Events are not delivered until Run is
// called.
func NewWatcher(path string, onReload ReloadFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		path:     abs,
		fsw:      fsw,
		onReload: onReload,
		debounce: DefaultReloadDebounce,
	}, nil
}

// Run delivers reloads until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.onReload(nil, err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.onReload(Load(w.path))
	})
}
