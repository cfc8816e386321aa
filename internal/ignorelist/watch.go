package ignorelist

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"intentgate/internal/logging"
)

// Watcher watches a workspace's ignore list file for changes and
// invalidates the shared cache entry on every write, so a long-running
// process picks up edits without waiting on the next mtime check.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cache   *Cache
	root    string
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	// OnChange, if set, is called after each observed write/remove/rename
	// event, with the event's file name.
	OnChange func(name string)
}

// NewWatcher creates a watcher for root's ignore list file. It does not
// start watching until Start is called.
func NewWatcher(root string, cache *Cache) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: fw,
		cache:   cache,
		root:    root,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching the workspace root directory (the ignore list
// file itself may not exist yet; watching the directory catches its
// creation too) and runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.root); err != nil {
		logging.Get(logging.CategoryIgnore).Warn("ignore list watcher: failed to watch %s: %v", w.root, err)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

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
			if filepath.Base(event.Name) != fileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.cache.invalidate(w.root)
			logging.Get(logging.CategoryIgnore).Info("ignore list changed: %s", event.Name)
			if w.OnChange != nil {
				w.OnChange(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryIgnore).Error("ignore list watcher error: %v", err)
		}
	}
}
