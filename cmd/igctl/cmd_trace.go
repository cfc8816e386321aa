package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"intentgate/internal/ledger"
)

var traceFilterIntent string

// traceCmd dumps the append-only trace ledger, one formatted line per
// record, optionally filtered to a single intent id.
var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the trace ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(workspace, ".orchestration", "agent_trace.jsonl")
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("no trace records yet")
				return nil
			}
			return err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			rec, err := ledger.Parse(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipping malformed trace line: %v\n", err)
				continue
			}
			if traceFilterIntent != "" && rec.IntentID != traceFilterIntent {
				continue
			}
			fmt.Printf("%s  %-20s  %-12s  %s\n", rec.Timestamp, rec.IntentID, rec.MutationClass.Wire(), rec.File)
		}
		return scanner.Err()
	},
}

func init() {
	traceCmd.Flags().StringVar(&traceFilterIntent, "intent", "", "Limit output to this intent id")
}
