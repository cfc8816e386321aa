package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intentgate/internal/intent"
)

// selectIntentCmd is the Safe, always-allowed entry point a run with no
// active intent must call before anything else: it only validates that
// the requested intent exists in the manifest and prints its rendered
// context, it never mutates anything.
var selectIntentCmd = &cobra.Command{
	Use:   "select-intent <id>",
	Short: "Validate an intent exists and print its rendered context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, found := intent.Load(workspace, args[0])
		if !found {
			return fmt.Errorf("intent %s not present in manifest", args[0])
		}
		fmt.Println(view.Rendered)
		return nil
	},
}

// contextCmd re-renders the active intent's context view, including any
// trace records accumulated since selection. Useful for re-injecting
// context into a long-running agent session.
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the active intent's rendered context (requires --intent)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if intentID == "" {
			return fmt.Errorf("--intent is required")
		}
		view, found := intent.Load(workspace, intentID)
		if !found {
			return fmt.Errorf("intent %s not present in manifest", intentID)
		}
		fmt.Println(view.Rendered)
		return nil
	},
}
