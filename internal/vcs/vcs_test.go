package vcs

import (
	"testing"
	"time"
)

func TestCurrentRevisionNonRepositoryReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	if got := CurrentRevision(dir); got != "" {
		t.Fatalf("CurrentRevision() = %q, want empty for a non-repository", got)
	}
}

func TestHeadContentNonRepositoryReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	if _, ok := HeadContent(dir, "a.go"); ok {
		t.Fatalf("expected HeadContent to report not-found for a non-repository")
	}
}

func TestProbeTimeoutIsConfigurable(t *testing.T) {
	original := ProbeTimeout
	defer func() { ProbeTimeout = original }()

	ProbeTimeout = 50 * time.Millisecond
	if ProbeTimeout != 50*time.Millisecond {
		t.Fatalf("expected ProbeTimeout to be settable, got %v", ProbeTimeout)
	}

	dir := t.TempDir()
	if got := CurrentRevision(dir); got != "" {
		t.Fatalf("CurrentRevision() = %q, want empty with a short ProbeTimeout on a non-repository", got)
	}
}
