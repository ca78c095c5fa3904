package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/formatter"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [workstream]",
	Short: "Show a workstream's event log",
	Long: `Print the append-only log of changes made through ws: creation, status
updates, structural additions and approvals.

Examples:
  ws history
  ws history payments --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.GroupID = "manage"
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the most recent N events")
}

func runHistory(cmd *cobra.Command, args []string) error {
	s := openStore()
	entry, err := s.Resolve(target(args))
	if err != nil {
		return err
	}
	events, err := s.History(entry.ID)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if historyLimit > 0 && len(events) > historyLimit {
		events = events[len(events)-historyLimit:]
	}

	w := cmd.OutOrStdout()
	if formatter.IsStructured(GetOutput()) {
		return formatter.Encode(w, GetOutput(), "events", events)
	}
	if len(events) == 0 {
		fmt.Fprintf(w, "No history for %s.\n", entry.ID)
		return nil
	}

	tbl := formatter.NewTable(w, "TIME", "ACTION", "ACTOR", "DETAIL")
	tbl.SetMaxWidth(3, 60)
	for _, ev := range events {
		tbl.AddRow(ev.Time.Local().Format("2006-01-02 15:04"), ev.Action, ev.Actor, ev.Detail)
	}
	return tbl.Render()
}
