// Package filehash implements the per-task optimistic file lock: a map
// of read-time content fingerprints consulted before each write so
// out-of-band modification between read and write is detected rather
// than silently overwritten.
package filehash

import (
	"sync"

	"intentgate/internal/hash"
)

// Snapshot is one task's file-hash state. The zero value is ready to
// use and starts empty, matching the "empty at task start" invariant.
type Snapshot struct {
	mu     sync.Mutex
	hashes map[string]string
}

// New creates an empty snapshot.
func New() *Snapshot {
	return &Snapshot{hashes: make(map[string]string)}
}

// Store records content's hash for relativePath. Callers must call
// this on every read and every successful write.
func (s *Snapshot) Store(relativePath, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hashes == nil {
		s.hashes = make(map[string]string)
	}
	s.hashes[relativePath] = hash.String(content)
}

// Get returns the recorded hash for relativePath, and whether one exists.
func (s *Snapshot) Get(relativePath string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[relativePath]
	return h, ok
}

// Unchanged reports whether currentContent's hash matches the recorded
// hash for relativePath. Returns true when no prior hash exists — a
// deliberate choice so a file's first write is never blocked.
func (s *Snapshot) Unchanged(relativePath, currentContent string) bool {
	recorded, ok := s.Get(relativePath)
	if !ok {
		return true
	}
	return recorded == hash.String(currentContent)
}

// Clear removes any recorded hash for relativePath.
func (s *Snapshot) Clear(relativePath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, relativePath)
}

// ClearAll empties the snapshot. Callers invoke this at task end.
func (s *Snapshot) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes = make(map[string]string)
}
