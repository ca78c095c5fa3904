package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// removedCommand is a command that no longer exists. Invoking it prints
// the replacement and fails without touching the work directory.
type removedCommand struct {
	Name        string
	Replacement string
	Reason      string
}

var removedCommands = []removedCommand{
	{Name: "edit", Replacement: "ws update --task <id> --status <status>", Reason: "status edits go through update so statuses stay derived"},
	{Name: "multi", Replacement: "ws list / ws validate --all", Reason: "multi-workstream views are built into list and validate"},
	{Name: "agents", Replacement: "synthesis.json in the work directory", Reason: "agent settings moved to the synthesis config"},
}

func (r removedCommand) command() *cobra.Command {
	// No config loading; removed commands never read the work directory.
	return &cobra.Command{
		Use:                r.Name,
		Short:              "Removed; use " + r.Replacement,
		Hidden:             true,
		DisableFlagParsing: true,
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.err()
		},
	}
}

func (r removedCommand) err() error {
	return fmt.Errorf("%w: 'ws %s' was removed (%s); use %s", errRemovedCommand, r.Name, r.Reason, r.Replacement)
}

func init() {
	for _, r := range removedCommands {
		rootCmd.AddCommand(r.command())
	}
}
