// Package gate orchestrates the lower-level components (ignore list,
// intent loader, scope matcher, authorization prompt, VCS probe,
// mutation classifier, trace ledger) into the two hooks that actually
// mediate tool execution: the security pre-hook and the trace
// post-hook.
package gate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"intentgate/internal/authz"
	"intentgate/internal/capability"
	"intentgate/internal/classify"
	"intentgate/internal/diff"
	"intentgate/internal/hash"
	"intentgate/internal/hooks"
	"intentgate/internal/ignorelist"
	"intentgate/internal/intent"
	"intentgate/internal/ledger"
	"intentgate/internal/logging"
	"intentgate/internal/scope"
	"intentgate/internal/vcs"
)

// CapabilityLookup resolves a tool's static capability classification.
// Unknown tools default to Destructive, which callers must apply
// themselves when the lookup reports !ok.
type CapabilityLookup func(tool string) (capability.Capability, bool)

// TargetPath extracts the workspace-relative path a tool call targets,
// when the tool has one (write/edit/delete style tools). Shell-style
// tools instead supply a command string via CommandOf.
type TargetPath func(params map[string]interface{}) (path string, ok bool)

// CommandOf extracts a human-readable command string from a shell-style
// tool's params, for the authorization description.
type CommandOf func(params map[string]interface{}) (command string, ok bool)

// SecurityPreHookConfig wires the Security Pre-Hook (C11) to its
// collaborators.
type SecurityPreHookConfig struct {
	Capability          CapabilityLookup
	TargetPath          TargetPath
	CommandOf           CommandOf
	Prompter            authz.Prompter
	IntentSelectionTool string
	Ignore              *ignorelist.Cache
	FailOpenOnAuthzUnavailable bool
}

// NewSecurityPreHook builds the pre-hook that implements the ordered
// policy: safe tools pass; an unset intent blocks everything but the
// selection tool; an ignored intent blocks; an out-of-scope target
// blocks; otherwise a human must approve.
func NewSecurityPreHook(cfg SecurityPreHookConfig) hooks.PreHook {
	if cfg.Ignore == nil {
		cfg.Ignore = ignorelist.New()
	}

	return hooks.PreHookFunc{
		HookID: "security-pre-hook",
		Fn: func(ctx context.Context, req hooks.Request) (bool, error) {
			cap, known := capability.Safe, false
			if cfg.Capability != nil {
				cap, known = cfg.Capability(req.Tool)
			}
			if known && cap == capability.Safe {
				return true, nil
			}

			if req.Task == nil || req.Task.IntentID == "" {
				if req.Tool == cfg.IntentSelectionTool {
					return true, nil
				}
				return false, hooks.NewToolError(req.Tool, "missing_intent_id", "", "", "no active intent; call the intent-selection tool first")
			}
			intentID := req.Task.IntentID

			if cfg.Ignore.IsIgnored(req.WorkspaceRoot, intentID) {
				return false, hooks.NewToolError(req.Tool, "intent_ignored", intentID, "", fmt.Sprintf("intent %s is on the ignore list", intentID))
			}

			view, found := intent.Load(req.WorkspaceRoot, intentID)
			if !found {
				return false, hooks.NewToolError(req.Tool, "intent_not_found", intentID, "", fmt.Sprintf("intent %s not present in manifest", intentID))
			}

			var targetFile string
			if cfg.TargetPath != nil {
				if path, ok := cfg.TargetPath(req.Params); ok {
					targetFile = path
					if len(view.OwnedScope) > 0 && !scope.IsWithin(path, view.OwnedScope) {
						return false, hooks.NewToolError(req.Tool, "scope_violation", intentID, path, fmt.Sprintf("%s is outside intent %s's owned scope", path, intentID))
					}
				}
			}

			description := authzDescription(req.WorkspaceRoot, req.Tool, intentID, targetFile, cfg.CommandOf, req.Params)
			decision, err := confirm(cfg.Prompter, description)
			if err != nil {
				if cfg.FailOpenOnAuthzUnavailable {
					logging.Get(logging.CategoryAuthz).Warn("authorization prompt unavailable for %s, failing open: %v", req.Tool, err)
					return true, nil
				}
				logging.Get(logging.CategoryAuthz).Warn("authorization prompt unavailable for %s, failing closed: %v", req.Tool, err)
				return false, hooks.NewToolError(req.Tool, "authz_unavailable", intentID, targetFile, fmt.Sprintf("authorization prompt unavailable: %v", err))
			}
			if decision == authz.Reject {
				return false, hooks.NewToolError(req.Tool, "user_rejected", intentID, targetFile, "human operator rejected the request")
			}
			return true, nil
		},
	}
}

func confirm(p authz.Prompter, description string) (authz.Decision, error) {
	if p == nil {
		return "", authz.ErrUnavailable
	}
	return p.Confirm(description)
}

func authzDescription(workspaceRoot, tool, intentID, targetFile string, commandOf CommandOf, params map[string]interface{}) string {
	if targetFile != "" {
		header := fmt.Sprintf("[%s] %s wants to write %s", intentID, tool, targetFile)
		if preview := diffPreview(workspaceRoot, targetFile, params); preview != "" {
			return header + "\n" + preview
		}
		return header
	}
	if commandOf != nil {
		if cmd, ok := commandOf(params); ok {
			return fmt.Sprintf("[%s] %s wants to run: %s", intentID, tool, cmd)
		}
	}
	return fmt.Sprintf("[%s] %s requests approval", intentID, tool)
}

// diffPreview renders a unified-diff preview of the pending write, when
// the tool call carries enough information to build one: a "content"
// param (write_file) or "old_text"/"new_text" params (edit_file).
func diffPreview(workspaceRoot, targetFile string, params map[string]interface{}) string {
	oldContent, hadOld := vcs.HeadContent(workspaceRoot, targetFile)
	if !hadOld {
		oldContent = ""
	}

	var newContent string
	if content, ok := params["content"].(string); ok {
		newContent = content
	} else if oldText, ok := params["old_text"].(string); ok {
		newText, _ := params["new_text"].(string)
		newContent = strings.Replace(oldContent, oldText, newText, 1)
	} else {
		return ""
	}

	fd := diff.ComputeDiff(targetFile, targetFile, oldContent, newContent)
	rendered := diff.Render(fd)
	if rendered == "" {
		return ""
	}
	return rendered
}

// PreviewRequest carries what a dry-run inspection needs: no write
// happens, nothing is prompted, nothing is appended to the ledger.
type PreviewRequest struct {
	WorkspaceRoot string
	IntentID      string
	TargetFile    string
	Params        map[string]interface{}
}

// PreviewResult reports what the security pre-hook and trace post-hook
// would decide for a PreviewRequest, without deciding it for real.
type PreviewResult struct {
	IntentFound   bool
	Ignored       bool
	InScope       bool
	Diff          string
	MutationClass classify.Class
}

// DryRunPreHook inspects req against the same ignore-list, scope, and
// classifier machinery the real hooks use, and reports what would
// happen. It never prompts a human and never appends to the trace
// ledger; ignore may be nil, in which case nothing is ignored.
func DryRunPreHook(ignore *ignorelist.Cache, req PreviewRequest) PreviewResult {
	if ignore == nil {
		ignore = ignorelist.New()
	}

	var result PreviewResult
	result.Ignored = ignore.IsIgnored(req.WorkspaceRoot, req.IntentID)

	view, found := intent.Load(req.WorkspaceRoot, req.IntentID)
	result.IntentFound = found
	if !found {
		return result
	}
	result.InScope = len(view.OwnedScope) == 0 || scope.IsWithin(req.TargetFile, view.OwnedScope)

	if req.TargetFile == "" {
		return result
	}
	result.Diff = diffPreview(req.WorkspaceRoot, req.TargetFile, req.Params)

	oldContent, hadOld := vcs.HeadContent(req.WorkspaceRoot, req.TargetFile)
	newContent := oldContent
	if content, ok := req.Params["content"].(string); ok {
		newContent = content
	} else if oldText, ok := req.Params["old_text"].(string); ok {
		newText, _ := req.Params["new_text"].(string)
		newContent = strings.Replace(oldContent, oldText, newText, 1)
	}
	result.MutationClass = classify.Preview(oldContent, hadOld, newContent).Class

	return result
}

// TracePostHookConfig wires the Trace Post-Hook (C12) to its
// collaborators. It triggers only on a successful write-file tool
// call: the hook returns without recording anything unless req.Tool is
// write_file or edit_file, so it can be registered for every tool.
type TracePostHookConfig struct {
	TargetPath      TargetPath
	ModelIdentifier string
}

// NewTracePostHook builds the post-hook that classifies the mutation
// and appends a trace record. Any failure here is logged, never
// surfaced to the tool-result channel — the write already succeeded.
func NewTracePostHook(cfg TracePostHookConfig) hooks.PostHook {
	return hooks.PostHookFunc{
		HookID: "trace-post-hook",
		Fn: func(ctx context.Context, req hooks.Request, newContent string) {
			if req.Tool != "write_file" && req.Tool != "edit_file" {
				return
			}
			if req.Task == nil || req.Task.IntentID == "" {
				logging.Get(logging.CategoryLedger).Warn("trace post-hook skipped: no active intent for %s", req.Tool)
				return
			}

			var targetFile string
			if cfg.TargetPath != nil {
				path, ok := cfg.TargetPath(req.Params)
				if !ok {
					logging.Get(logging.CategoryLedger).Warn("trace post-hook skipped: %s has no target path", req.Tool)
					return
				}
				targetFile = path
			}

			oldContent, hadOld := vcs.HeadContent(req.WorkspaceRoot, targetFile)

			var hint classify.Class
			if raw, ok := req.Params["mutation_class"].(string); ok && raw != "" {
				hint = classify.FromWire(raw)
			}
			mutationClass := classify.Classify(oldContent, hadOld, newContent, hint)

			rec := ledger.Record{
				ReqID:           req.Task.ID,
				IntentID:        req.Task.IntentID,
				File:            targetFile,
				Timestamp:       time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
				MutationClass:   mutationClass,
				ContentHash:     hash.String(newContent),
				ModelIdentifier: cfg.ModelIdentifier,
				Related:         []string{req.Task.ID},
				Ranges:          ledger.Ranges{ContentHash: hash.String(newContent)},
			}
			if rev := vcs.CurrentRevision(req.WorkspaceRoot); rev != "" {
				rec.VCS = &ledger.VCSInfo{Revision: rev, Branch: vcs.CurrentBranch(req.WorkspaceRoot)}
			}

			if err := ledger.Append(req.WorkspaceRoot, rec); err != nil {
				logging.Get(logging.CategoryLedger).Error("failed to append trace record for %s: %v", targetFile, err)
			}
		},
	}
}
