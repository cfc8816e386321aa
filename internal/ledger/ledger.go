// Package ledger is the append-only trace journal. Each successful,
// gated mutation is recorded as one JSON line in
// <workspaceRoot>/.orchestration/agent_trace.jsonl. Records are never
// rewritten, truncated, or compacted.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"intentgate/internal/classify"
)

const tracePath = ".orchestration/agent_trace.jsonl"

// VCSInfo is the optional version-control stamp on a record. When
// present, Revision is always non-empty; Branch may be absent.
type VCSInfo struct {
	Revision string `json:"revision"`
	Branch   string `json:"branch,omitempty"`
}

// Ranges carries the record's content hash again, for future spatial
// indexing. It must always equal ContentHash.
type Ranges struct {
	ContentHash string `json:"content_hash"`
}

// Record is one immutable trace ledger entry.
type Record struct {
	ReqID           string         `json:"req_id"`
	IntentID        string         `json:"intent_id"`
	File            string         `json:"file"`
	Timestamp       string         `json:"timestamp"`
	MutationClass   classify.Class `json:"-"`
	MutationClassRaw string        `json:"mutation_class"`
	ContentHash     string         `json:"content_hash"`
	ModelIdentifier string         `json:"model_identifier,omitempty"`
	Related         []string       `json:"related"`
	Ranges          Ranges         `json:"ranges"`
	VCS             *VCSInfo       `json:"vcs,omitempty"`
}

// MarshalJSON keeps MutationClass and MutationClassRaw synchronized so
// callers can build a Record with MutationClass alone.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	a := alias(r)
	a.MutationClassRaw = r.MutationClass.Wire()
	return json.Marshal(a)
}

// UnmarshalJSON parses the wire mutation_class spelling back into
// MutationClass.
func (r *Record) UnmarshalJSON(data []byte) error {
	type alias Record
	a := (*alias)(r)
	if err := json.Unmarshal(data, a); err != nil {
		return err
	}
	r.MutationClass = classify.FromWire(r.MutationClassRaw)
	return nil
}

var appendMu sync.Mutex

// Append writes record as one canonical JSON line, creating
// .orchestration/ if needed. Failures propagate to the caller; this
// is the only component for which faults are not swallowed, since the
// caller (the trace post-hook) already treats ledger errors as
// non-fatal to the side effect that already succeeded. Each call is one
// O_APPEND write; appendMu serializes appends within one process only,
// so callers in separate processes appending to the same ledger must
// serialize externally.
func Append(workspaceRoot string, record Record) error {
	if record.ContentHash != record.Ranges.ContentHash {
		record.Ranges.ContentHash = record.ContentHash
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal trace record: %w", err)
	}

	full := filepath.Join(workspaceRoot, tracePath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create .orchestration: %w", err)
	}

	appendMu.Lock()
	defer appendMu.Unlock()

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open trace ledger: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append trace ledger: %w", err)
	}
	return nil
}

// Parse decodes a single ledger line into a Record.
func Parse(line []byte) (Record, error) {
	var r Record
	err := json.Unmarshal(line, &r)
	return r, err
}
