package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <workstream>",
	Short: "Delete a workstream",
	Long: `Remove a workstream's directory and its index entry.

The workstream must be named exactly: by ID, number or slug. Fuzzy
matches are not accepted. Workstreams with unchecked tasks are only
deleted with --force.

Examples:
  ws delete 002-spike
  ws delete 2 --force --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.GroupID = "manage"
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete even when tasks are incomplete")
}

func runDelete(cmd *cobra.Command, args []string) error {
	s := openStore()
	unlock, err := s.Lock(cmd.Context())
	if err != nil {
		return err
	}
	defer unlock()

	entry, err := s.ResolveExact(args[0])
	if err != nil {
		return err
	}
	ws, _, err := s.Load(entry.ID)
	if err != nil {
		return err
	}

	if open := ws.Unchecked(); len(open) > 0 && !deleteForce {
		return fmt.Errorf("%w: %s has %s (use --force to delete anyway)", errIncomplete, ws.ID, plural(len(open), "unchecked task"))
	}

	w := cmd.OutOrStdout()
	if GetDryRun() {
		fmt.Fprintf(w, "[dry-run] would delete %s\n", s.WorkstreamDir(ws.ID))
		return nil
	}
	if err := s.Delete(ws.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted %s\n", ws.ID)
	return nil
}
