package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/store"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var (
	addStage   int
	addBatch   int
	addThread  string
	addSummary string
)

var addStageCmd = &cobra.Command{
	Use:   "add-stage <title>",
	Short: "Append a stage",
	Long: `Append a stage with one empty batch to the workstream.

Examples:
  ws add-stage "Rollout"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAddStage,
}

var addBatchCmd = &cobra.Command{
	Use:   "add-batch <title>",
	Short: "Append a batch to a stage",
	Long: `Append a batch to a stage. Threads in one batch can run in parallel;
batches run in order.

Examples:
  ws add-batch --stage 2 "Hardening"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAddBatch,
}

var addThreadCmd = &cobra.Command{
	Use:   "add-thread <title>",
	Short: "Append a thread to a batch",
	Long: `Append a thread to a batch. A batch holds at most 8 threads; adding a
ninth is rejected.

Examples:
  ws add-thread --stage 1 --batch 1 "Schema migration" --summary "Online, no downtime"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAddThread,
}

var addTaskCmd = &cobra.Command{
	Use:   "add-task <description>",
	Short: "Append a task to a thread",
	Long: `Append an unchecked task to a thread. The task gets the next free
SS.BB.TT.NN identifier in that thread.

Examples:
  ws add-task --thread 01.01.02 "Backfill ledger rows"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAddTask,
}

func init() {
	for _, c := range []*cobra.Command{addStageCmd, addBatchCmd, addThreadCmd, addTaskCmd} {
		c.GroupID = "edit"
		rootCmd.AddCommand(c)
	}

	addBatchCmd.Flags().IntVar(&addStage, "stage", 0, "Stage number")
	_ = addBatchCmd.MarkFlagRequired("stage")

	addThreadCmd.Flags().IntVar(&addStage, "stage", 0, "Stage number")
	addThreadCmd.Flags().IntVar(&addBatch, "batch", 1, "Batch number")
	addThreadCmd.Flags().StringVar(&addSummary, "summary", "", "Short thread summary")
	_ = addThreadCmd.MarkFlagRequired("stage")

	addTaskCmd.Flags().StringVar(&addThread, "thread", "", "Thread reference (SS.BB.TT)")
	_ = addTaskCmd.MarkFlagRequired("thread")
}

// runAdd applies a structural edit and reports what was added.
func runAdd(cmd *cobra.Command, fn func(ws *workstream.Workstream) (string, error)) error {
	var added string
	_, err := mutate(cmd, targetFlag, func(ws *workstream.Workstream) (store.Event, error) {
		what, err := fn(ws)
		if err != nil {
			return store.Event{}, err
		}
		added = what
		return store.Event{Action: store.ActionAdd, Detail: what}, nil
	})
	if err != nil {
		return err
	}
	if !GetDryRun() {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", added)
	}
	return nil
}

func runAddStage(cmd *cobra.Command, args []string) error {
	title, err := singleLine("stage title", args)
	if err != nil {
		return err
	}
	return runAdd(cmd, func(ws *workstream.Workstream) (string, error) {
		stage := ws.AddStage(title)
		if _, err := ws.AddBatch(stage.Index, "Batch 1"); err != nil {
			return "", err
		}
		return fmt.Sprintf("stage %02d: %s", stage.Index, title), nil
	})
}

func runAddBatch(cmd *cobra.Command, args []string) error {
	title, err := singleLine("batch title", args)
	if err != nil {
		return err
	}
	return runAdd(cmd, func(ws *workstream.Workstream) (string, error) {
		b, err := ws.AddBatch(addStage, title)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("batch %02d.%02d: %s", addStage, b.Index, title), nil
	})
}

func runAddThread(cmd *cobra.Command, args []string) error {
	title, err := singleLine("thread title", args)
	if err != nil {
		return err
	}
	return runAdd(cmd, func(ws *workstream.Workstream) (string, error) {
		th, err := ws.AddThread(addStage, addBatch, title)
		if err != nil {
			return "", err
		}
		th.Summary = strings.TrimSpace(addSummary)
		return fmt.Sprintf("thread %s: %s", workstream.FormatThreadRef(addStage, addBatch, th.Index), title), nil
	})
}

func runAddTask(cmd *cobra.Command, args []string) error {
	desc, err := singleLine("task description", args)
	if err != nil {
		return err
	}
	sIdx, bIdx, tIdx, ok := workstream.ParseThreadRef(addThread)
	if !ok {
		return fmt.Errorf("invalid thread reference %q (want SS.BB.TT)", addThread)
	}
	return runAdd(cmd, func(ws *workstream.Workstream) (string, error) {
		task, err := ws.AddTask(sIdx, bIdx, tIdx, desc)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("task %s: %s", task.ID, desc), nil
	})
}
