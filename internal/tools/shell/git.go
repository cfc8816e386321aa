package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"intentgate/internal/capability"
	"intentgate/internal/logging"
	"intentgate/internal/tools"
)

// execCommandContext is a var so tests can substitute a fake process.
var execCommandContext = exec.CommandContext

// GitDiffTool returns a tool for inspecting uncommitted changes.
func GitDiffTool() *tools.Tool {
	return &tools.Tool{
		Name:        "git_diff",
		Description: "Show the diff of uncommitted changes",
		Category:    tools.CategoryShell,
		Capability:  capability.Safe,
		Priority:    70,
		Execute:     executeGitDiff,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"path": {
					Type:        "string",
					Description: "Limit the diff to this file or directory",
				},
				"staged": {
					Type:        "boolean",
					Description: "Show staged changes instead of the working tree (default: false)",
					Default:     false,
				},
				"working_dir": {
					Type:        "string",
					Description: "Repository directory (default: current directory)",
				},
			},
		},
	}
}

func executeGitDiff(ctx context.Context, args map[string]any) (string, error) {
	workingDir, _ := args["working_dir"].(string)

	gitArgs := []string{"diff"}
	if staged, ok := args["staged"].(bool); ok && staged {
		gitArgs = append(gitArgs, "--staged")
	}
	if path, ok := args["path"].(string); ok && path != "" {
		gitArgs = append(gitArgs, "--", path)
	}

	logging.Get(logging.CategoryTools).Debug("git_diff: args=%v, dir=%s", gitArgs, workingDir)
	return runGit(ctx, workingDir, gitArgs...)
}

// GitLogTool returns a tool for inspecting commit history.
func GitLogTool() *tools.Tool {
	return &tools.Tool{
		Name:        "git_log",
		Description: "Show recent commit history",
		Category:    tools.CategoryShell,
		Capability:  capability.Safe,
		Priority:    70,
		Execute:     executeGitLog,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"count": {
					Type:        "integer",
					Description: "Number of commits to show (default: 10)",
					Default:     10,
				},
				"author": {
					Type:        "string",
					Description: "Filter commits by author",
				},
				"working_dir": {
					Type:        "string",
					Description: "Repository directory (default: current directory)",
				},
			},
		},
	}
}

func executeGitLog(ctx context.Context, args map[string]any) (string, error) {
	workingDir, _ := args["working_dir"].(string)

	count := 10
	if c, ok := args["count"].(int); ok && c > 0 {
		count = c
	}

	gitArgs := []string{"log", fmt.Sprintf("-n%d", count), "--pretty=format:%H %an %s"}
	if author, ok := args["author"].(string); ok && author != "" {
		gitArgs = append(gitArgs, "--author="+author)
	}

	logging.Get(logging.CategoryTools).Debug("git_log: count=%d, dir=%s", count, workingDir)
	return runGit(ctx, workingDir, gitArgs...)
}

// GitOperationTool returns a tool for mutating git operations: add, commit,
// push, pull, checkout, branch, fetch, stash, reset, and status.
func GitOperationTool() *tools.Tool {
	return &tools.Tool{
		Name:        "git_operation",
		Description: "Run a git operation (add, commit, push, pull, checkout, branch, fetch, stash, reset, status)",
		Category:    tools.CategoryShell,
		Capability:  capability.Destructive,
		Priority:    65,
		Execute:     executeGitOperation,
		Schema: tools.ToolSchema{
			Required: []string{"operation"},
			Properties: map[string]tools.Property{
				"operation": {
					Type:        "string",
					Description: "One of add, commit, push, pull, checkout, branch, fetch, stash, reset, status",
				},
				"files": {
					Type:        "string",
					Description: "Files to operate on for add (default: .)",
				},
				"message": {
					Type:        "string",
					Description: "Commit message for commit",
				},
				"branch": {
					Type:        "string",
					Description: "Branch name for checkout or branch",
				},
				"args": {
					Type:        "string",
					Description: "Extra raw arguments appended to the command (e.g. 'origin main' for push)",
				},
				"working_dir": {
					Type:        "string",
					Description: "Repository directory (default: current directory)",
				},
			},
		},
	}
}

func executeGitOperation(ctx context.Context, args map[string]any) (string, error) {
	operation, _ := args["operation"].(string)
	if operation == "" {
		return "", fmt.Errorf("operation is required")
	}

	workingDir, _ := args["working_dir"].(string)
	extra, _ := args["args"].(string)

	var gitArgs []string
	switch operation {
	case "status":
		gitArgs = []string{"status"}
	case "add":
		files, _ := args["files"].(string)
		if files == "" {
			files = "."
		}
		gitArgs = []string{"add", files}
	case "commit":
		message, _ := args["message"].(string)
		if message == "" {
			return "", fmt.Errorf("message is required for commit")
		}
		gitArgs = []string{"commit", "-m", message}
	case "push":
		gitArgs = []string{"push"}
	case "pull":
		gitArgs = []string{"pull"}
	case "fetch":
		gitArgs = []string{"fetch"}
	case "stash":
		gitArgs = []string{"stash"}
	case "reset":
		gitArgs = []string{"reset"}
	case "checkout":
		branch, _ := args["branch"].(string)
		if branch == "" {
			return "", fmt.Errorf("branch is required for checkout")
		}
		gitArgs = []string{"checkout", branch}
	case "branch":
		branch, _ := args["branch"].(string)
		if branch == "" {
			return "", fmt.Errorf("branch is required for branch")
		}
		gitArgs = []string{"branch", branch}
	default:
		return "", fmt.Errorf("unsupported git operation: %s", operation)
	}

	if extra != "" {
		gitArgs = append(gitArgs, strings.Fields(extra)...)
	}

	logging.Get(logging.CategoryTools).Debug("git_operation: op=%s, dir=%s", operation, workingDir)
	output, err := runGit(ctx, workingDir, gitArgs...)
	if err != nil {
		logging.Get(logging.CategoryTools).Info("git_operation %s failed: %v", operation, err)
		return output, err
	}
	return output, nil
}

func runGit(ctx context.Context, workingDir string, gitArgs ...string) (string, error) {
	cmd := execCommandContext(ctx, "git", gitArgs...)
	if workingDir != "" {
		cmd.Dir = workingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String()
	if output == "" {
		output = stderr.String()
	} else if stderr.Len() > 0 {
		output += "\n--- stderr ---\n" + stderr.String()
	}

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\n%s", strings.Join(gitArgs, " "), err, output)
	}
	return output, nil
}
