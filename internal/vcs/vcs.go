// Package vcs is a read-only accessor for the workspace's version-control
// revision, branch, and previously committed file content. It never
// returns an error to callers — any failure (missing tool, non-repository,
// timeout, non-zero exit) degrades to an absent result.
package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"intentgate/internal/logging"
)

// ProbeTimeout bounds every git subprocess this package spawns. It is a
// var, not a const, so the CLI can set it from the configured
// vcs.probe_timeout at startup; until then every probe uses this
// default.
var ProbeTimeout = 3 * time.Second

// CurrentRevision returns the current commit hash, or "" if unavailable.
func CurrentRevision(workspaceRoot string) string {
	if !hasGitDir(workspaceRoot) {
		return ""
	}
	out, ok := run(workspaceRoot, "rev-parse", "HEAD")
	if !ok {
		return ""
	}
	return strings.TrimSpace(out)
}

// CurrentBranch returns the current branch name, or "" if unavailable
// (detached HEAD, missing tool, non-repository).
func CurrentBranch(workspaceRoot string) string {
	if !hasGitDir(workspaceRoot) {
		return ""
	}
	out, ok := run(workspaceRoot, "rev-parse", "--abbrev-ref", "HEAD")
	if !ok {
		return ""
	}
	branch := strings.TrimSpace(out)
	if branch == "" || branch == "HEAD" {
		return ""
	}
	return branch
}

// HeadContent returns the content of relativePath as committed at HEAD,
// and true if it was found. Returns false (not an error) when the file
// is untracked, the workspace isn't a repository, or git is unavailable.
func HeadContent(workspaceRoot, relativePath string) (string, bool) {
	if !hasGitDir(workspaceRoot) {
		return "", false
	}
	out, ok := run(workspaceRoot, "show", "HEAD:"+filepath.ToSlash(relativePath))
	if !ok {
		return "", false
	}
	return out, true
}

// hasGitDir checks for a .git metadata entry before shelling out, so a
// non-repository workspace never pays for a subprocess spawn. A worktree's
// .git is a file, not a directory, so presence alone is sufficient.
func hasGitDir(workspaceRoot string) bool {
	_, err := os.Stat(filepath.Join(workspaceRoot, ".git"))
	return err == nil
}

func run(workspaceRoot string, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = workspaceRoot

	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		logging.Get(logging.CategoryVCS).Warn("git %v timed out in %s", args, workspaceRoot)
		return "", false
	}
	if err != nil {
		logging.Get(logging.CategoryVCS).Debug("git %v failed in %s: %v", args, workspaceRoot, err)
		return "", false
	}
	return string(out), true
}
