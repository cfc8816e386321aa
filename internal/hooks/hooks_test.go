package hooks

import (
	"context"
	"errors"
	"testing"
)

func TestRunPreShortCircuitsOnDeny(t *testing.T) {
	r := New()
	var secondRan bool
	r.RegisterPre(PreHookFunc{HookID: "deny", Fn: func(ctx context.Context, req Request) (bool, error) {
		return false, NewToolError(req.Tool, "scope_violation", "", "", "nope")
	}})
	r.RegisterPre(PreHookFunc{HookID: "second", Fn: func(ctx context.Context, req Request) (bool, error) {
		secondRan = true
		return true, nil
	}})

	allow, err := r.RunPre(context.Background(), Request{Tool: "write_file"})
	if allow {
		t.Fatalf("expected deny")
	}
	if err == nil {
		t.Fatalf("expected error from denying hook")
	}
	if secondRan {
		t.Fatalf("expected short-circuit before second hook")
	}
}

func TestRunPrePanicFailsSafe(t *testing.T) {
	r := New()
	r.RegisterPre(PreHookFunc{HookID: "panics", Fn: func(ctx context.Context, req Request) (bool, error) {
		panic("boom")
	}})
	r.RegisterPre(PreHookFunc{HookID: "second", Fn: func(ctx context.Context, req Request) (bool, error) {
		return true, nil
	}})

	allow, err := r.RunPre(context.Background(), Request{Tool: "write_file"})
	if !allow {
		t.Fatalf("expected fail-safe allow after panicking hook")
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunPostRunsAllUnconditionally(t *testing.T) {
	r := New()
	var calls int
	r.RegisterPost(PostHookFunc{HookID: "a", Fn: func(ctx context.Context, req Request, result string) {
		calls++
		panic("post hooks must not crash the pipeline")
	}})
	r.RegisterPost(PostHookFunc{HookID: "b", Fn: func(ctx context.Context, req Request, result string) {
		calls++
	}})

	r.RunPost(context.Background(), Request{Tool: "write_file"}, "ok")
	if calls != 2 {
		t.Fatalf("expected both post-hooks to run, got %d calls", calls)
	}
}

func TestDuplicateRegistrationIsNoop(t *testing.T) {
	r := New()
	r.RegisterPre(PreHookFunc{HookID: "x", Fn: func(ctx context.Context, req Request) (bool, error) { return true, nil }})
	r.RegisterPre(PreHookFunc{HookID: "x", Fn: func(ctx context.Context, req Request) (bool, error) {
		return false, errors.New("should never run")
	}})

	allow, err := r.RunPre(context.Background(), Request{})
	if !allow || err != nil {
		t.Fatalf("duplicate registration must not replace the original hook")
	}
}
