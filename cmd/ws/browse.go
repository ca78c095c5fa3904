package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/boshu2/workstreams/cli/internal/browse"
	"github.com/boshu2/workstreams/cli/internal/store"
)

var browseCmd = &cobra.Command{
	Use:   "browse [workstream]",
	Short: "Browse and check off tasks interactively",
	Long: `Open an interactive view of the workstream's tasks. Move with j/k,
toggle a task with space or x, mark it started with s, and press q to save
and quit. The work directory stays locked while the browser is open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.GroupID = "core"
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse needs an interactive terminal; use ws status or ws update instead")
	}

	s := openStore()
	unlock, err := s.Lock(cmd.Context())
	if err != nil {
		return err
	}
	defer unlock()

	ws, _, err := loadTarget(s, target(args))
	if err != nil {
		return err
	}

	changed, err := browse.Run(ws, stylesFor(cmd), os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return nil
	}
	if GetDryRun() {
		fmt.Fprintf(cmd.OutOrStdout(), "[dry-run] discarded %s\n", plural(len(changed), "edit"))
		return nil
	}

	if err := s.Save(ws); err != nil {
		return err
	}
	for _, id := range uniqueInOrder(changed) {
		task, _, _ := ws.FindTask(id)
		ev := store.Event{Action: store.ActionUpdate, Actor: GetCurrentUser(), Detail: fmt.Sprintf("%s -> %s", id, task.Status)}
		if err := s.Record(ws.ID, ev); err != nil {
			logger.Warn("could not record history", "id", ws.ID, "error", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s (now %s)\n", plural(len(changed), "edit"), ws.ID, ws.Status)
	return nil
}

func uniqueInOrder(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
