package filehash

import (
	"encoding/json"
	"os"
	"path/filepath"

	"intentgate/internal/logging"
)

const snapshotDir = ".orchestration/task_hashes"

func snapshotPath(workspaceRoot, taskID string) string {
	return filepath.Join(workspaceRoot, snapshotDir, taskID+".json")
}

// LoadFrom reads the persisted snapshot for taskID, so a later process
// sharing --task-id picks up the hashes an earlier invocation recorded.
// A missing or unreadable file yields an empty snapshot rather than an
// error, matching "empty at task start" for a task's first call.
func LoadFrom(workspaceRoot, taskID string) *Snapshot {
	data, err := os.ReadFile(snapshotPath(workspaceRoot, taskID))
	if err != nil {
		return New()
	}

	hashes := make(map[string]string)
	if err := json.Unmarshal(data, &hashes); err != nil {
		logging.Get(logging.CategoryTools).Warn("failed to parse persisted file-hash snapshot for task %s: %v", taskID, err)
		return New()
	}
	return &Snapshot{hashes: hashes}
}

// SaveTo persists s under taskID, overwriting any prior snapshot for
// the same task. Callers invoke this once per process exit so the
// next igctl invocation sharing --task-id sees every hash recorded so
// far.
func (s *Snapshot) SaveTo(workspaceRoot, taskID string) error {
	s.mu.Lock()
	data, err := json.Marshal(s.hashes)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	dir := filepath.Join(workspaceRoot, snapshotDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(snapshotPath(workspaceRoot, taskID), data, 0644)
}
