package main

import (
	"github.com/spf13/cobra"
)

var runWorkingDir string

var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Execute a shell command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{"command": args[0]}
		if runWorkingDir != "" {
			params["working_dir"] = runWorkingDir
		}
		return runTool(cmd, "run_command", params)
	},
}

var bashCmd = &cobra.Command{
	Use:   "bash <script>",
	Short: "Execute a bash script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{"script": args[0]}
		if runWorkingDir != "" {
			params["working_dir"] = runWorkingDir
		}
		return runTool(cmd, "bash", params)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the project's build command (auto-detected)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{}
		if runWorkingDir != "" {
			params["working_dir"] = runWorkingDir
		}
		return runTool(cmd, "run_build", params)
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the project's test suite (auto-detected)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{}
		if runWorkingDir != "" {
			params["working_dir"] = runWorkingDir
		}
		return runTool(cmd, "run_tests", params)
	},
}

var gitDiffCmd = &cobra.Command{
	Use:   "git-diff [path]",
	Short: "Show the diff of uncommitted changes",
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{}
		if len(args) == 1 {
			params["path"] = args[0]
		}
		if runWorkingDir != "" {
			params["working_dir"] = runWorkingDir
		}
		return runTool(cmd, "git_diff", params)
	},
}

var gitLogCount int

var gitLogCmd = &cobra.Command{
	Use:   "git-log",
	Short: "Show recent commit history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{"count": gitLogCount}
		if runWorkingDir != "" {
			params["working_dir"] = runWorkingDir
		}
		return runTool(cmd, "git_log", params)
	},
}

var gitOpArgs string

var gitOpCmd = &cobra.Command{
	Use:   "git-op <operation>",
	Short: "Run a mutating git operation (add, commit, push, pull, checkout, branch, fetch, stash, reset, status)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{"operation": args[0]}
		if runWorkingDir != "" {
			params["working_dir"] = runWorkingDir
		}
		if gitOpArgs != "" {
			params["args"] = gitOpArgs
		}
		return runTool(cmd, "git_operation", params)
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, bashCmd, buildCmd, testCmd, gitDiffCmd, gitLogCmd, gitOpCmd} {
		c.Flags().StringVar(&runWorkingDir, "dir", "", "Working directory (default: current directory)")
	}
	gitLogCmd.Flags().IntVar(&gitLogCount, "count", 10, "Number of commits to show")
	gitOpCmd.Flags().StringVar(&gitOpArgs, "args", "", "Extra raw arguments (e.g. 'origin main' for push)")
}
