// Package fsnotify reloads the manual registry when the manual file changes.
package fsnotify

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/readthis"
)

// DefaultDebounce is how long the watcher waits after the last change
// before reloading. Editors often write a file in several steps.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a registry whenever its manual file is written, created
// or renamed into place. A failed reload keeps the installed snapshot.
type Watcher struct {
	registry readthis.ManualRegistry
	path     string
	debounce time.Duration
	logger   *slog.Logger
	onReload func(*readthis.ReloadResult)

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger for change and reload events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithReloadHook registers fn to be called with every reload result.
func WithReloadHook(fn func(*readthis.ReloadResult)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watch starts watching path and returns once the watch is installed.
// The directory is watched rather than the file so that atomic
// replacements are seen. Call Close to stop.
func Watch(ctx context.Context, registry readthis.ManualRegistry, path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manual path: %w", err)
	}

	w := &Watcher{
		registry: registry,
		path:     abs,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.watcher = fw

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx)
	}()

	w.logger.Info("watching manual file", "path", abs)
	return w, nil
}

// Close stops the watcher and waits for a pending reload to finish.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("manual file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "err", err)

		case <-fire:
			fire = nil
			result := w.registry.Reload(ctx)
			if result.Success {
				w.logger.Info("manual file reloaded", "documents", result.CurrentCount, "generation", result.Generation)
			} else {
				w.logger.Warn("manual file reload failed", "message", result.Message)
			}
			if w.onReload != nil {
				w.onReload(result)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
