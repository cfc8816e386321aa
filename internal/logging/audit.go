// Package logging also provides an audit trail of gate decisions,
// separate from the per-category debug logs above. Audit entries are a
// debugging aid only — the append-only trace ledger (internal/ledger)
// remains the system of record for successful mutations.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType classifies an audit entry.
type AuditEventType string

const (
	AuditSafetyAllow   AuditEventType = "safety_allow"
	AuditSafetyBlock   AuditEventType = "safety_block"
	AuditToolInvoke    AuditEventType = "tool_invoke"
	AuditToolComplete  AuditEventType = "tool_complete"
	AuditToolError     AuditEventType = "tool_error"
	AuditLedgerAppend  AuditEventType = "ledger_append"
	AuditLedgerError   AuditEventType = "ledger_error"
)

// AuditEvent is a single structured audit log entry.
type AuditEvent struct {
	Timestamp  int64          `json:"ts"`
	EventType  AuditEventType `json:"event"`
	IntentID   string         `json:"intent_id,omitempty"`
	Tool       string         `json:"tool,omitempty"`
	Target     string         `json:"target,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Success    bool           `json:"success"`
	DurationMs int64          `json:"dur_ms,omitempty"`
	Message    string         `json:"msg"`
}

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// InitAudit opens the audit log for the day, if debug mode is enabled.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit appends one structured audit event. No-op when debug mode is off
// or the audit log hasn't been initialized.
func Audit(event AuditEvent) {
	if !IsDebugMode() || auditFile == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	auditFile.WriteString(string(data) + "\n")
}
