package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/store"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var completeCmd = &cobra.Command{
	Use:   "complete [task-id...]",
	Short: "Mark tasks, or the whole workstream, complete",
	Long: `With task IDs, mark each task complete.

Without arguments, close out the workstream. This only succeeds when every
task is checked; otherwise the unchecked tasks are listed and nothing is
written.

Examples:
  ws complete 01.01.01.01 01.01.01.02
  ws complete -w payments`,
	RunE: runComplete,
}

func init() {
	completeCmd.GroupID = "edit"
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if len(args) == 0 {
		ws, err := mutate(cmd, targetFlag, func(ws *workstream.Workstream) (store.Event, error) {
			if len(ws.Tasks()) == 0 {
				return store.Event{}, fmt.Errorf("%s has no tasks to complete", ws.ID)
			}
			if open := ws.Unchecked(); len(open) > 0 {
				fmt.Fprintf(w, "%s still has %s:\n", ws.ID, plural(len(open), "unchecked task"))
				for _, ref := range open {
					fmt.Fprintf(w, "  - [%s] %s %s\n", markerFor(ref.Task.Status), ref.Task.ID, ref.Task.Description)
				}
				return store.Event{}, fmt.Errorf("%w: %d of %d tasks open", errIncomplete, len(open), len(ws.Tasks()))
			}
			return store.Event{Action: store.ActionUpdate, Detail: "workstream complete"}, nil
		})
		if err != nil {
			return err
		}
		if !GetDryRun() {
			fmt.Fprintf(w, "Workstream %s is complete\n", ws.ID)
		}
		return nil
	}

	var done []string
	_, err := mutate(cmd, targetFlag, func(ws *workstream.Workstream) (store.Event, error) {
		for _, id := range args {
			task, err := ws.ApplyUpdate(id, workstream.StatusComplete)
			if err != nil {
				return store.Event{}, err
			}
			done = append(done, task.ID)
		}
		return store.Event{Action: store.ActionUpdate, Detail: strings.Join(done, ", ") + " -> complete"}, nil
	})
	if err != nil {
		return err
	}
	if !GetDryRun() {
		fmt.Fprintf(w, "Completed %s: %s\n", plural(len(done), "task"), strings.Join(done, ", "))
	}
	return nil
}

func markerFor(s workstream.Status) string {
	switch s {
	case workstream.StatusComplete:
		return "x"
	case workstream.StatusInProgress:
		return "~"
	}
	return " "
}
