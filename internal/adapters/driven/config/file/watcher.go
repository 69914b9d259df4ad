package file

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/intervo/internal/core/ports/driven"
	"github.com/custodia-labs/intervo/internal/logger"
)

// PromptWatcher watches a prompt directory and reloads the prompt store
// when a .txt file changes, so long-running servers pick up edits
// without a restart. Rapid saves are debounced.
type PromptWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	store   driven.PromptStore
	dir     string
	pending bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewPromptWatcher creates a watcher for the given prompt directory.
func NewPromptWatcher(store driven.PromptStore, dir string) (*PromptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &PromptWatcher{
		watcher: watcher,
		store:   store,
		dir:     dir,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a
// goroutine until Stop or context cancellation.
func (w *PromptWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		// Directory may not exist until the store's lazy init runs.
		logger.Warn("prompt watcher: initial watch of %s failed: %v", w.dir, err)
	} else {
		logger.Debug("prompt watcher: watching %s", w.dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *PromptWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logger.Warn("prompt watcher: close failed: %v", err)
	}
}

func (w *PromptWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("prompt watcher: %v", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *PromptWatcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".txt") {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return
	}

	logger.Debug("prompt watcher: %s changed", filepath.Base(event.Name))
	w.mu.Lock()
	w.pending = true
	w.mu.Unlock()
}

// flush performs at most one reload per debounce window, no matter how
// many events arrived.
func (w *PromptWatcher) flush() {
	w.mu.Lock()
	if !w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	w.store.Reload()
	logger.Info("prompt templates reloaded")
}
