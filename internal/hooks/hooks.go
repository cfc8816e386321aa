// Package hooks is the ordered pre/post execution mediator that every
// tool invocation passes through. It carries no policy of its own —
// the security pre-hook and trace post-hook (package gate) are
// registered into it like any other hook.
package hooks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"intentgate/internal/filehash"
	"intentgate/internal/logging"
)

// ToolError is the structured denial payload delivered to the agent on
// the tool's own result channel, never thrown as an exception.
type ToolError struct {
	Type     string `json:"type"`
	Tool     string `json:"tool"`
	Reason   string `json:"reason"`
	IntentID string `json:"intent_id,omitempty"`
	File     string `json:"file,omitempty"`
	Message  string `json:"message"`
}

func (e ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// NewToolError builds a tool_error payload.
func NewToolError(tool, reason, intentID, file, message string) ToolError {
	return ToolError{Type: "tool_error", Tool: tool, Reason: reason, IntentID: intentID, File: file, Message: message}
}

// Request carries everything a hook needs to decide: the tool being
// invoked, its raw arguments, and the task-scoped state (active intent,
// workspace root, file-hash snapshot) hooks consult or mutate.
type Request struct {
	Tool          string
	Params        map[string]interface{}
	WorkspaceRoot string
	Task          *Task
}

// Task is the per-task state threaded through every hook in one tool
// call sequence.
type Task struct {
	ID        string
	IntentID  string
	FileHash  *filehash.Snapshot
}

// Hashes returns the task's file-hash snapshot, creating one on first
// use so callers never need a nil check.
func (t *Task) Hashes() *filehash.Snapshot {
	if t.FileHash == nil {
		t.FileHash = filehash.New()
	}
	return t.FileHash
}

// PreHook runs before the tool body. Allow=false short-circuits the
// pipeline and denies the call; a non-nil Err is forwarded to the
// agent as the denial's message when Allow is false, and is otherwise
// just logged (infrastructure faults fail open).
type PreHook interface {
	ID() string
	RunPre(ctx context.Context, req Request) (allow bool, err error)
}

// PostHook runs after a successful tool execution. Errors are logged,
// never propagated — the side effect already happened.
type PostHook interface {
	ID() string
	RunPost(ctx context.Context, req Request, result string)
}

// PreHookFunc adapts a function to PreHook.
type PreHookFunc struct {
	HookID string
	Fn     func(ctx context.Context, req Request) (bool, error)
}

func (f PreHookFunc) ID() string { return f.HookID }
func (f PreHookFunc) RunPre(ctx context.Context, req Request) (bool, error) {
	return f.Fn(ctx, req)
}

// PostHookFunc adapts a function to PostHook.
type PostHookFunc struct {
	HookID string
	Fn     func(ctx context.Context, req Request, result string)
}

func (f PostHookFunc) ID() string { return f.HookID }
func (f PostHookFunc) RunPost(ctx context.Context, req Request, result string) {
	f.Fn(ctx, req, result)
}

// Registry holds the ordered pre- and post-hook lists. Identity is by
// hook id; a duplicate registration is a no-op with a warning, not an
// error, since a misconfigured double-register must not crash startup.
type Registry struct {
	mu   sync.Mutex
	pre  []PreHook
	post []PostHook
	ids  map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

// RegisterPre appends a pre-hook in registration order.
func (r *Registry) RegisterPre(h PreHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ids[h.ID()]; exists {
		logging.Get(logging.CategoryHook).Warn("duplicate pre-hook registration ignored: %s", h.ID())
		return
	}
	r.ids[h.ID()] = struct{}{}
	r.pre = append(r.pre, h)
}

// RegisterPost appends a post-hook in registration order.
func (r *Registry) RegisterPost(h PostHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ids[h.ID()]; exists {
		logging.Get(logging.CategoryHook).Warn("duplicate post-hook registration ignored: %s", h.ID())
		return
	}
	r.ids[h.ID()] = struct{}{}
	r.post = append(r.post, h)
}

// Unregister removes a hook by id from whichever list holds it.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ids, id)

	pre := r.pre[:0]
	for _, h := range r.pre {
		if h.ID() != id {
			pre = append(pre, h)
		}
	}
	r.pre = pre

	post := r.post[:0]
	for _, h := range r.post {
		if h.ID() != id {
			post = append(post, h)
		}
	}
	r.post = post
}

// RunPre iterates registered pre-hooks in order. The first hook that
// returns allow=false short-circuits the pipeline; its error, if any,
// is returned to the caller for delivery to the agent. A hook that
// itself errors without explicitly denying is logged and skipped
// (fail-safe: a misbehaving hook must not deny all tool execution).
func (r *Registry) RunPre(ctx context.Context, req Request) (bool, error) {
	r.mu.Lock()
	pre := make([]PreHook, len(r.pre))
	copy(pre, r.pre)
	r.mu.Unlock()

	for _, h := range pre {
		allow, err := safeRunPre(h, ctx, req)
		if !allow {
			return false, err
		}
		if err != nil {
			logging.Get(logging.CategoryHook).Warn("pre-hook %s returned an error without denying: %v", h.ID(), err)
		}
	}
	return true, nil
}

func safeRunPre(h PreHook, ctx context.Context, req Request) (allow bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Get(logging.CategoryHook).Error("pre-hook %s panicked: %v", h.ID(), rec)
			allow, err = true, nil
		}
	}()
	return h.RunPre(ctx, req)
}

// RunPost runs every registered post-hook unconditionally. Errors are
// not propagated anywhere but the log.
func (r *Registry) RunPost(ctx context.Context, req Request, result string) {
	r.mu.Lock()
	post := make([]PostHook, len(r.post))
	copy(post, r.post)
	r.mu.Unlock()

	for _, h := range post {
		safeRunPost(h, ctx, req, result)
	}
}

func safeRunPost(h PostHook, ctx context.Context, req Request, result string) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Get(logging.CategoryHook).Error("post-hook %s panicked: %v", h.ID(), rec)
		}
	}()
	h.RunPost(ctx, req, result)
}

type contextKey int

const taskContextKey contextKey = 0

// taskContext bundles the task-scoped state carried on a context.Context
// across a tool invocation, so Execute callers don't need their own
// threading mechanism.
type taskContext struct {
	workspaceRoot string
	task          *Task
}

// WithTask attaches the active task and workspace root to ctx.
func WithTask(ctx context.Context, workspaceRoot string, task *Task) context.Context {
	return context.WithValue(ctx, taskContextKey, taskContext{workspaceRoot: workspaceRoot, task: task})
}

// TaskFromContext retrieves the task and workspace root attached by
// WithTask, if any.
func TaskFromContext(ctx context.Context) (workspaceRoot string, task *Task, ok bool) {
	tc, ok := ctx.Value(taskContextKey).(taskContext)
	if !ok {
		return "", nil, false
	}
	return tc.workspaceRoot, tc.task, true
}

// IDs returns the registered hook ids (pre and post together) sorted
// alphabetically, for diagnostics.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
