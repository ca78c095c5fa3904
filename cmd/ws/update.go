package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/store"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var (
	updateTask   string
	updateThread string
	updateStatus string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Set the status of a task or a whole thread",
	Long: `Update a task's status and re-derive the thread, batch, stage and
workstream statuses above it. Setting the same status twice is a no-op.

Statuses: not_started (todo), in_progress (wip), complete (done).

Examples:
  ws update --task 01.01.02.03 --status done
  ws update --thread 01.02.01 --status in_progress -w payments`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.GroupID = "edit"
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateTask, "task", "t", "", "Task ID (SS.BB.TT.NN)")
	updateCmd.Flags().StringVar(&updateThread, "thread", "", "Thread reference (SS.BB.TT); updates every task in it")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "New status")
	updateCmd.MarkFlagsMutuallyExclusive("task", "thread")
	updateCmd.MarkFlagsOneRequired("task", "thread")
	_ = updateCmd.MarkFlagRequired("status")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	status, err := workstream.ParseStatus(updateStatus)
	if err != nil {
		return err
	}

	var summary string
	ws, err := mutate(cmd, targetFlag, func(ws *workstream.Workstream) (store.Event, error) {
		if updateThread != "" {
			sIdx, bIdx, tIdx, ok := workstream.ParseThreadRef(updateThread)
			if !ok {
				return store.Event{}, fmt.Errorf("invalid thread reference %q (want SS.BB.TT)", updateThread)
			}
			th, err := ws.ApplyThreadUpdate(sIdx, bIdx, tIdx, status)
			if err != nil {
				return store.Event{}, err
			}
			summary = fmt.Sprintf("thread %s (%s) -> %s", updateThread, plural(len(th.Tasks), "task"), status)
		} else {
			task, err := ws.ApplyUpdate(updateTask, status)
			if err != nil {
				return store.Event{}, err
			}
			summary = fmt.Sprintf("%s -> %s", task.ID, status)
		}
		return store.Event{Action: store.ActionUpdate, Detail: summary}, nil
	})
	if err != nil {
		return err
	}

	if !GetDryRun() {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Updated %s\n", summary)
		fmt.Fprintf(w, "Workstream %s is %s\n", ws.ID, ws.Status)
	}
	return nil
}
