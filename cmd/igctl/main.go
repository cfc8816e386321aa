// Command igctl is the CLI entry point that wires the gate's hook
// pipeline around the tool registry. Each invocation represents one
// mediated tool call; an agent harness shells out to igctl instead of
// calling tools directly so every call passes through the security
// pre-hook and trace post-hook.
//
// # File Index
//
//   - main.go       - rootCmd, global flags, wireSystem()
//   - cmd_file.go   - read/write/edit/delete/list/glob/grep verbs
//   - cmd_shell.go  - run/bash/build/test/git verbs
//   - cmd_intent.go - select-intent, context verbs
//   - cmd_trace.go  - trace verb
//   - cmd_watch.go  - watch verb (ignore list hot-reload)
//   - cmd_preview.go - preview verb (dry-run scope/classification check)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"intentgate/internal/authz"
	"intentgate/internal/capability"
	"intentgate/internal/config"
	"intentgate/internal/filehash"
	"intentgate/internal/gate"
	"intentgate/internal/hooks"
	"intentgate/internal/ignorelist"
	"intentgate/internal/logging"
	"intentgate/internal/tools"
	"intentgate/internal/tools/core"
	"intentgate/internal/tools/shell"
	"intentgate/internal/vcs"
)

var (
	workspace   string
	intentID    string
	taskID      string
	autoApprove bool
	debug       bool

	cfg          *config.Config
	toolRegistry *tools.Registry
	hookRegistry *hooks.Registry
	currentTask  *hooks.Task
	ignoreCache  *ignorelist.Cache
)

var rootCmd = &cobra.Command{
	Use:   "igctl",
	Short: "Mediated tool dispatcher for intent-gated agent runs",
	Long: `igctl mediates a single tool call through the gate's pre/post hook
pipeline: it loads the active intent, checks scope and the ignore list,
asks a human to approve destructive operations, executes the tool, and
appends a classified trace record.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return wireSystem()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if currentTask != nil {
			if err := currentTask.Hashes().SaveTo(workspace, currentTask.ID); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to persist file-hash snapshot: %v\n", err)
			}
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&intentID, "intent", "", "Active intent id for this call")
	rootCmd.PersistentFlags().StringVar(&taskID, "task-id", "", "Task id grouping related calls (default: generated)")
	rootCmd.PersistentFlags().BoolVar(&autoApprove, "auto-approve", false, "Skip the human confirmation prompt (testing only)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable file-based debug logging")

	rootCmd.AddCommand(
		readCmd, writeCmd, editCmd, deleteCmd, listCmd, globCmd, grepCmd,
		runCmd, bashCmd, buildCmd, testCmd, gitDiffCmd, gitLogCmd, gitOpCmd,
		selectIntentCmd, contextCmd,
		traceCmd,
		watchCmd,
		previewCmd,
	)
}

// wireSystem loads configuration, initializes logging, and assembles
// the tool registry with the gate's pre/post hooks attached. It runs
// once per process, before the requested verb executes.
func wireSystem() error {
	ws := workspace
	if ws == "" {
		var err error
		ws, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve workspace: %w", err)
		}
	}
	abs, err := filepath.Abs(ws)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	workspace = abs

	cfg, err = config.Load(filepath.Join(workspace, ".orchestration", "igctl.yaml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.WorkspaceRoot = workspace
	if debug {
		cfg.Logging.DebugMode = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	vcs.ProbeTimeout = cfg.ProbeTimeout()

	if err := logging.Initialize(workspace, cfg.Logging.DebugMode, cfg.Logging.Level, cfg.Logging.Categories, cfg.Logging.Format == "json"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize logging: %v\n", err)
	}

	toolRegistry = tools.NewRegistry()
	if err := core.RegisterAll(toolRegistry); err != nil {
		return fmt.Errorf("register core tools: %w", err)
	}
	if err := shell.RegisterAll(toolRegistry); err != nil {
		return fmt.Errorf("register shell tools: %w", err)
	}

	var prompter authz.Prompter
	if autoApprove {
		prompter = authz.AutoPrompter{Decision: authz.Approve}
	} else {
		prompter = authz.NewStdioPrompter(os.Stdin, os.Stderr)
	}

	ignoreCache = ignorelist.New()

	hookRegistry = hooks.New()
	hookRegistry.RegisterPre(gate.NewSecurityPreHook(gate.SecurityPreHookConfig{
		Capability:                 toolCapability,
		TargetPath:                 filePathOf,
		CommandOf:                  commandOf,
		Prompter:                   prompter,
		IntentSelectionTool:        "select_intent",
		Ignore:                     ignoreCache,
		FailOpenOnAuthzUnavailable: cfg.Authorization.FailOpenOnUnavailable,
	}))
	hookRegistry.RegisterPost(gate.NewTracePostHook(gate.TracePostHookConfig{
		TargetPath:      filePathOf,
		ModelIdentifier: "igctl",
	}))
	toolRegistry.WithHooks(hookRegistry)

	id := taskID
	if id == "" {
		id = uuid.NewString()
	}
	currentTask = &hooks.Task{ID: id, IntentID: intentID, FileHash: filehash.LoadFrom(workspace, id)}

	return nil
}

func toolCapability(name string) (capability.Capability, bool) {
	tool := toolRegistry.Get(name)
	if tool == nil {
		return capability.Destructive, false
	}
	return tool.EffectiveCapability(), true
}

func filePathOf(params map[string]interface{}) (string, bool) {
	p, ok := params["path"].(string)
	return p, ok
}

func commandOf(params map[string]interface{}) (string, bool) {
	if c, ok := params["command"].(string); ok {
		return c, true
	}
	if s, ok := params["script"].(string); ok {
		return s, true
	}
	return "", false
}

// runTool executes a tool by name through the mediated registry,
// attaching the current task to the context so the hook pipeline can
// consult it, and prints the result or a structured tool_error.
func runTool(cmd *cobra.Command, name string, args map[string]any) error {
	ctx := hooks.WithTask(cmd.Context(), workspace, currentTask)
	result, err := toolRegistry.Execute(ctx, name, args)
	if err != nil {
		if toolErr, ok := err.(hooks.ToolError); ok {
			fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", toolErr.Reason, toolErr.Tool, toolErr.Message)
			return fmt.Errorf("denied")
		}
		return err
	}
	fmt.Println(result.Result)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
