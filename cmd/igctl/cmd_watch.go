package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"intentgate/internal/ignorelist"
)

// watchCmd runs a long-lived process that watches the workspace's
// ignore list and invalidates this process's ignoreCache (the same
// cache the security pre-hook wired in wireSystem reads) on every
// change, printing each change it observes. Mediated calls made by
// other igctl invocations run in their own processes and read the
// file through their own cache.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch .intentignore for changes until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := ignorelist.NewWatcher(workspace, ignoreCache)
		if err != nil {
			return fmt.Errorf("start ignore list watcher: %w", err)
		}
		w.OnChange = func(name string) {
			fmt.Printf("ignore list changed: %s\n", name)
		}

		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("start ignore list watcher: %w", err)
		}
		fmt.Printf("watching %s for ignore list changes (ctrl-c to stop)\n", workspace)

		<-ctx.Done()
		w.Stop()
		return nil
	},
}
