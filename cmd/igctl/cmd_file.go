package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a file's contents (safe, bypasses the security pre-hook)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "read_file", map[string]any{"path": args[0]})
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <path> <content>",
	Short: "Write content to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "write_file", map[string]any{"path": args[0], "content": args[1]})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <path> <old_text> <new_text>",
	Short: "Replace text in a file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "edit_file", map[string]any{
			"path": args[0], "old_text": args[1], "new_text": args[2],
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "delete_file", map[string]any{"path": args[0]})
	},
}

var listCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List a directory's contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "list_files", map[string]any{"path": args[0]})
	},
}

var globCmd = &cobra.Command{
	Use:   "glob <pattern>",
	Short: "Find files matching a glob pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "glob", map[string]any{"pattern": args[0]})
	},
}

var (
	grepFilePattern string
	grepMaxResults  string
)

var grepCmd = &cobra.Command{
	Use:   "grep <pattern> [path]",
	Short: "Search file contents with a regular expression",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{"pattern": args[0]}
		if len(args) == 2 {
			params["path"] = args[1]
		}
		if grepFilePattern != "" {
			params["file_pattern"] = grepFilePattern
		}
		if grepMaxResults != "" {
			if n, err := strconv.Atoi(grepMaxResults); err == nil {
				params["max_results"] = n
			}
		}
		return runTool(cmd, "grep", params)
	},
}

func init() {
	grepCmd.Flags().StringVar(&grepFilePattern, "file-pattern", "", "Glob pattern limiting which files are searched")
	grepCmd.Flags().StringVar(&grepMaxResults, "max-results", "", "Maximum number of matches")
}
