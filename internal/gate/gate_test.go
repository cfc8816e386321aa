package gate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"intentgate/internal/authz"
	"intentgate/internal/capability"
	"intentgate/internal/hooks"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	orchDir := filepath.Join(dir, ".orchestration")
	if err := os.MkdirAll(orchDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(orchDir, "active_intents.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func targetPathOf(params map[string]interface{}) (string, bool) {
	p, ok := params["path"].(string)
	return p, ok
}

func destructiveLookup(tool string) (capability.Capability, bool) {
	return capability.Destructive, true
}

func TestSecurityPreHookMissingIntentBlocks(t *testing.T) {
	dir := t.TempDir()
	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability:          destructiveLookup,
		TargetPath:          targetPathOf,
		IntentSelectionTool: "select_intent",
		Prompter:            authz.AutoPrompter{Decision: authz.Approve},
	})

	req := hooks.Request{Tool: "write_file", WorkspaceRoot: dir, Task: &hooks.Task{ID: "t-1"}, Params: map[string]interface{}{"path": "src/a.ts"}}
	allow, err := preHook.RunPre(context.Background(), req)
	if allow {
		t.Fatalf("expected deny with no active intent")
	}
	toolErr, ok := err.(hooks.ToolError)
	if !ok || toolErr.Reason != "missing_intent_id" {
		t.Fatalf("expected missing_intent_id, got %v", err)
	}
}

func TestSecurityPreHookScopeViolation(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n  owned_scope:\n    - src/**\n")

	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability:          destructiveLookup,
		TargetPath:          targetPathOf,
		IntentSelectionTool: "select_intent",
		Prompter:            authz.AutoPrompter{Decision: authz.Approve},
	})

	req := hooks.Request{
		Tool:          "write_file",
		WorkspaceRoot: dir,
		Task:          &hooks.Task{ID: "t-1", IntentID: "INT-1"},
		Params:        map[string]interface{}{"path": "docs/a.md"},
	}
	allow, err := preHook.RunPre(context.Background(), req)
	if allow {
		t.Fatalf("expected deny for out-of-scope path")
	}
	toolErr, ok := err.(hooks.ToolError)
	if !ok || toolErr.Reason != "scope_violation" {
		t.Fatalf("expected scope_violation, got %v", err)
	}
}

func TestSecurityPreHookIgnoredIntentBlocks(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-9\n")
	if err := os.WriteFile(filepath.Join(dir, ".intentignore"), []byte("INT-9\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability:          destructiveLookup,
		TargetPath:          targetPathOf,
		IntentSelectionTool: "select_intent",
		Prompter:            authz.AutoPrompter{Decision: authz.Approve},
	})

	req := hooks.Request{
		Tool:          "write_file",
		WorkspaceRoot: dir,
		Task:          &hooks.Task{ID: "t-1", IntentID: "INT-9"},
		Params:        map[string]interface{}{"path": "src/a.ts"},
	}
	allow, err := preHook.RunPre(context.Background(), req)
	if allow {
		t.Fatalf("expected deny for ignored intent")
	}
	toolErr, ok := err.(hooks.ToolError)
	if !ok || toolErr.Reason != "intent_ignored" {
		t.Fatalf("expected intent_ignored, got %v", err)
	}
}

func TestSecurityPreHookHappyPathApproves(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n  owned_scope:\n    - src/**\n")

	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability:          destructiveLookup,
		TargetPath:          targetPathOf,
		IntentSelectionTool: "select_intent",
		Prompter:            authz.AutoPrompter{Decision: authz.Approve},
	})

	req := hooks.Request{
		Tool:          "write_file",
		WorkspaceRoot: dir,
		Task:          &hooks.Task{ID: "t-1", IntentID: "INT-1"},
		Params:        map[string]interface{}{"path": "src/a.ts"},
	}
	allow, err := preHook.RunPre(context.Background(), req)
	if !allow || err != nil {
		t.Fatalf("expected allow, got allow=%v err=%v", allow, err)
	}
}

func TestSecurityPreHookRejectedByHuman(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n")

	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability:          destructiveLookup,
		TargetPath:          targetPathOf,
		IntentSelectionTool: "select_intent",
		Prompter:            authz.AutoPrompter{Decision: authz.Reject},
	})

	req := hooks.Request{
		Tool:          "write_file",
		WorkspaceRoot: dir,
		Task:          &hooks.Task{ID: "t-1", IntentID: "INT-1"},
		Params:        map[string]interface{}{"path": "src/a.ts"},
	}
	allow, err := preHook.RunPre(context.Background(), req)
	if allow {
		t.Fatalf("expected deny on human rejection")
	}
	toolErr, ok := err.(hooks.ToolError)
	if !ok || toolErr.Reason != "user_rejected" {
		t.Fatalf("expected user_rejected, got %v", err)
	}
}

func TestSecurityPreHookAuthzUnavailableFailsOpen(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n")

	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability:                 destructiveLookup,
		TargetPath:                 targetPathOf,
		IntentSelectionTool:        "select_intent",
		Prompter:                   nil,
		FailOpenOnAuthzUnavailable: true,
	})

	req := hooks.Request{
		Tool:          "write_file",
		WorkspaceRoot: dir,
		Task:          &hooks.Task{ID: "t-1", IntentID: "INT-1"},
		Params:        map[string]interface{}{"path": "src/a.ts"},
	}
	allow, err := preHook.RunPre(context.Background(), req)
	if !allow || err != nil {
		t.Fatalf("expected fail-open allow when prompter unavailable, got allow=%v err=%v", allow, err)
	}
}

func TestSecurityPreHookAuthzUnavailableFailsClosed(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n")

	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability:                 destructiveLookup,
		TargetPath:                 targetPathOf,
		IntentSelectionTool:        "select_intent",
		Prompter:                   nil,
		FailOpenOnAuthzUnavailable: false,
	})

	req := hooks.Request{
		Tool:          "write_file",
		WorkspaceRoot: dir,
		Task:          &hooks.Task{ID: "t-1", IntentID: "INT-1"},
		Params:        map[string]interface{}{"path": "src/a.ts"},
	}
	allow, err := preHook.RunPre(context.Background(), req)
	if allow {
		t.Fatalf("expected fail-closed deny when prompter unavailable")
	}
	toolErr, ok := err.(hooks.ToolError)
	if !ok || toolErr.Reason != "authz_unavailable" {
		t.Fatalf("expected authz_unavailable, got %v", err)
	}
}

func TestSecurityPreHookSafeToolBypasses(t *testing.T) {
	dir := t.TempDir()
	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability: func(tool string) (capability.Capability, bool) {
			return capability.Safe, true
		},
		IntentSelectionTool: "select_intent",
	})

	req := hooks.Request{Tool: "read_file", WorkspaceRoot: dir, Task: &hooks.Task{ID: "t-1"}}
	allow, err := preHook.RunPre(context.Background(), req)
	if !allow || err != nil {
		t.Fatalf("expected safe tool to bypass all checks, got allow=%v err=%v", allow, err)
	}
}

type capturingPrompter struct {
	descriptions []string
}

func (c *capturingPrompter) Confirm(description string) (authz.Decision, error) {
	c.descriptions = append(c.descriptions, description)
	return authz.Approve, nil
}

func TestSecurityPreHookDescriptionIncludesDiffPreview(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n  owned_scope:\n    - src/**\n")

	prompter := &capturingPrompter{}
	preHook := NewSecurityPreHook(SecurityPreHookConfig{
		Capability:          destructiveLookup,
		TargetPath:          targetPathOf,
		IntentSelectionTool: "select_intent",
		Prompter:            prompter,
	})

	req := hooks.Request{
		Tool:          "write_file",
		WorkspaceRoot: dir,
		Task:          &hooks.Task{ID: "t-1", IntentID: "INT-1"},
		Params:        map[string]interface{}{"path": "src/a.ts", "content": "new line\n"},
	}
	allow, err := preHook.RunPre(context.Background(), req)
	if !allow || err != nil {
		t.Fatalf("expected allow, got allow=%v err=%v", allow, err)
	}
	if len(prompter.descriptions) != 1 {
		t.Fatalf("expected one confirm call, got %d", len(prompter.descriptions))
	}
	desc := prompter.descriptions[0]
	if !strings.Contains(desc, "+new line") || !strings.Contains(desc, "/dev/null") {
		t.Errorf("expected a new-file diff preview in description, got: %s", desc)
	}
}

func TestTracePostHookAppendsRecord(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n")

	postHook := NewTracePostHook(TracePostHookConfig{TargetPath: targetPathOf})

	req := hooks.Request{
		Tool:          "write_file",
		WorkspaceRoot: dir,
		Task:          &hooks.Task{ID: "t-42", IntentID: "INT-1"},
		Params:        map[string]interface{}{"path": "src/a.ts"},
	}
	postHook.RunPost(context.Background(), req, "hello\n")

	data, err := os.ReadFile(filepath.Join(dir, ".orchestration", "agent_trace.jsonl"))
	if err != nil {
		t.Fatalf("expected trace ledger to exist: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected a trace line to be appended")
	}
}

func TestDryRunPreHookReportsScopeAndClassWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n  owned_scope:\n    - src/**\n")

	result := DryRunPreHook(nil, PreviewRequest{
		WorkspaceRoot: dir,
		IntentID:      "INT-1",
		TargetFile:    "src/a.ts",
		Params:        map[string]interface{}{"content": "new line\n"},
	})

	if !result.IntentFound {
		t.Fatalf("expected intent to be found")
	}
	if result.Ignored {
		t.Fatalf("expected intent not ignored")
	}
	if !result.InScope {
		t.Fatalf("expected src/a.ts to be in scope")
	}
	if !strings.Contains(result.Diff, "+new line") {
		t.Fatalf("expected diff preview to contain the new content, got: %s", result.Diff)
	}

	if _, err := os.Stat(filepath.Join(dir, "src", "a.ts")); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create the target file")
	}
	if _, err := os.Stat(filepath.Join(dir, ".orchestration", "agent_trace.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("dry run must not append to the trace ledger")
	}
}

func TestDryRunPreHookOutOfScope(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "- id: INT-1\n  owned_scope:\n    - src/**\n")

	result := DryRunPreHook(nil, PreviewRequest{
		WorkspaceRoot: dir,
		IntentID:      "INT-1",
		TargetFile:    "docs/a.md",
		Params:        map[string]interface{}{"content": "hello\n"},
	})

	if result.InScope {
		t.Fatalf("expected docs/a.md to be out of scope")
	}
}

func TestDryRunPreHookUnknownIntent(t *testing.T) {
	dir := t.TempDir()
	result := DryRunPreHook(nil, PreviewRequest{WorkspaceRoot: dir, IntentID: "INT-404", TargetFile: "src/a.ts"})
	if result.IntentFound {
		t.Fatalf("expected intent not found")
	}
}
