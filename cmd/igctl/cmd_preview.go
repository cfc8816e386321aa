package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intentgate/internal/gate"
)

// previewCmd shows what a pending write would classify as and whether
// it falls inside the active intent's owned scope, without writing
// anything to disk or the trace ledger. Useful for an agent to check
// its own work before spending a human approval on it.
var previewCmd = &cobra.Command{
	Use:   "preview <path> <content>",
	Short: "Show how a write would be classified and scoped, without writing it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if intentID == "" {
			return fmt.Errorf("--intent is required")
		}

		result := gate.DryRunPreHook(ignoreCache, gate.PreviewRequest{
			WorkspaceRoot: workspace,
			IntentID:      intentID,
			TargetFile:    args[0],
			Params:        map[string]interface{}{"content": args[1]},
		})
		if !result.IntentFound {
			return fmt.Errorf("intent %s not present in manifest", intentID)
		}

		fmt.Printf("ignored:        %v\n", result.Ignored)
		fmt.Printf("in_scope:       %v\n", result.InScope)
		fmt.Printf("mutation_class: %s\n", result.MutationClass.Wire())
		if result.Diff != "" {
			fmt.Println(result.Diff)
		}
		return nil
	},
}
