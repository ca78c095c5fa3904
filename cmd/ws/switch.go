package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/formatter"
)

var switchCmd = &cobra.Command{
	Use:   "switch <workstream>",
	Short: "Select the current workstream",
	Long: `Make a workstream the default target of other commands.

The argument can be the full ID, its number, its slug, or any fuzzy
fragment of the ID or title that matches one workstream best.

Examples:
  ws switch 001-payments-rewrite
  ws switch 3
  ws switch paymnts`,
	Args: cobra.ExactArgs(1),
	RunE: runSwitch,
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current workstream",
	Args:  cobra.NoArgs,
	RunE:  runCurrent,
}

func init() {
	switchCmd.GroupID = "manage"
	currentCmd.GroupID = "manage"
	rootCmd.AddCommand(switchCmd, currentCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	s := openStore()
	unlock, err := s.Lock(cmd.Context())
	if err != nil {
		return err
	}
	defer unlock()

	entry, err := s.Resolve(args[0])
	if err != nil {
		return err
	}
	if GetDryRun() {
		fmt.Fprintf(cmd.OutOrStdout(), "[dry-run] would switch to %s\n", entry.ID)
		return nil
	}
	if err := s.SetCurrent(entry.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s (%s)\n", entry.ID, entry.Title)
	return nil
}

func runCurrent(cmd *cobra.Command, args []string) error {
	entry, err := openStore().Current()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if formatter.IsStructured(GetOutput()) {
		return formatter.Encode(w, GetOutput(), "current", entry)
	}
	fmt.Fprintf(w, "%s  %s\n", entry.ID, entry.Title)
	return nil
}
