// Package ignorelist caches the workspace's disabled-intent list
// (.intentignore), invalidating the cache when the file's mtime changes.
package ignorelist

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"intentgate/internal/logging"
)

const fileName = ".intentignore"

type cacheEntry struct {
	mtime time.Time
	ids   map[string]struct{}
}

// Cache is a per-process, mtime-invalidated cache of ignore lists, one
// entry per workspace root.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// defaultCache is used by the package-level convenience function.
var defaultCache = New()

// IsIgnored reports whether intentID appears in <workspaceRoot>/.intentignore,
// using the package-level default cache.
func IsIgnored(workspaceRoot, intentID string) bool {
	return defaultCache.IsIgnored(workspaceRoot, intentID)
}

// IsIgnored reports whether intentID appears in <workspaceRoot>/.intentignore.
// A missing file means an empty list, i.e. never ignored.
func (c *Cache) IsIgnored(workspaceRoot, intentID string) bool {
	ids := c.load(workspaceRoot)
	_, ignored := ids[intentID]
	return ignored
}

func (c *Cache) load(workspaceRoot string) map[string]struct{} {
	path := filepath.Join(workspaceRoot, fileName)

	info, err := os.Stat(path)
	if err != nil {
		// Missing file: empty list, and nothing to cache against.
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[workspaceRoot]; ok && entry.mtime.Equal(info.ModTime()) {
		return entry.ids
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logging.Get(logging.CategoryIgnore).Warn("failed to read %s: %v", path, err)
		return nil
	}

	ids := parse(string(data))
	c.entries[workspaceRoot] = cacheEntry{mtime: info.ModTime(), ids: ids}
	return ids
}

// invalidate drops any cached entry for workspaceRoot, forcing the next
// IsIgnored call to re-read the file regardless of mtime. Used by
// Watcher on an fsnotify event, so a hot-reload doesn't have to wait on
// a second-granularity mtime comparison.
func (c *Cache) invalidate(workspaceRoot string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, workspaceRoot)
}

func parse(data string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, line := range strings.FieldsFunc(data, func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids[line] = struct{}{}
	}
	return ids
}
