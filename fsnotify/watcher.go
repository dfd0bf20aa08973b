// Package fsnotify rebuilds the catalog when source documents change.
package fsnotify

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// DefaultMinInterval is the minimum spacing between two rebuilds.
const DefaultMinInterval = time.Second

// RebuildFunc rebuilds the catalog.
type RebuildFunc func(ctx context.Context) error

// Watcher watches a source directory and calls Rebuild once changes to
// document files settle. Rebuilds run sequentially on the watch goroutine
// and are spaced at least MinInterval apart.
type Watcher struct {
	Dir         string
	Ext         string
	Debounce    time.Duration
	MinInterval time.Duration
	Rebuild     RebuildFunc
	Logger      *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	limiter *rate.Limiter
	cancel  context.CancelFunc
	done    chan struct{}
	pending bool
	last    time.Time
}

// NewWatcher creates a Watcher for .md files in dir.
func NewWatcher(dir string, rebuild RebuildFunc, logger *slog.Logger) *Watcher {
	return &Watcher{
		Dir:         dir,
		Ext:         ".md",
		Debounce:    DefaultDebounce,
		MinInterval: DefaultMinInterval,
		Rebuild:     rebuild,
		Logger:      logger,
	}
}

// Start begins watching. Events are delivered from the moment Start returns.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(w.Dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.watcher = watcher
	w.limiter = rate.NewLimiter(rate.Every(w.MinInterval), 1)
	w.done = make(chan struct{})
	go w.run(ctx, watcher, w.done)

	w.Logger.Info("watching source directory", "dir", w.Dir)
	return nil
}

// Stop stops watching and waits for an in-flight rebuild to finish.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	watcher, cancel, done := w.watcher, w.cancel, w.done
	w.watcher = nil
	w.mu.Unlock()

	if watcher == nil {
		return nil
	}
	cancel()
	<-done
	return watcher.Close()
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	tick := w.Debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.Logger.Error("watch error", "err", err)

		case <-ticker.C:
			if w.settled() {
				w.rebuild(ctx)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Ext(event.Name) != w.Ext {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.Logger.Debug("source changed", "path", event.Name, "op", event.Op.String())
	w.pending = true
	w.last = time.Now()
}

func (w *Watcher) settled() bool {
	return w.pending && time.Since(w.last) >= w.Debounce
}

func (w *Watcher) rebuild(ctx context.Context) {
	w.pending = false
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	if err := w.Rebuild(ctx); err != nil {
		w.Logger.Error("rebuild failed", "err", err)
	}
}
