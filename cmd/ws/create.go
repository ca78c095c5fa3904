package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/document"
	"github.com/boshu2/workstreams/cli/internal/formatter"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var (
	createEstimate string
	createStages   int
	createThreads  int
	createTasks    int
	createSummary  string
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new workstream",
	Long: `Create a workstream and its PLAN.md skeleton.

The skeleton follows the default structure for the estimate:
  short   1 stage,  2 threads per stage, 3 tasks per thread
  medium  2 stages, 3 threads per stage, 4 tasks per thread
  long    3 stages, 4 threads per stage, 5 tasks per thread

Threads beyond 8 in a stage spill into a second batch. The new workstream
becomes the current one.

Examples:
  ws create "Payments rewrite"
  ws create "Search tuning" --estimate short --tasks 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.GroupID = "core"
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createEstimate, "estimate", "e", "", "Size estimate: short, medium or long (default from config)")
	createCmd.Flags().IntVar(&createStages, "stages", 0, "Override the number of stages")
	createCmd.Flags().IntVar(&createThreads, "threads", 0, "Override the number of threads per stage")
	createCmd.Flags().IntVar(&createTasks, "tasks", 0, "Override the number of tasks per thread")
	createCmd.Flags().StringVar(&createSummary, "summary", "", "One-paragraph summary for the plan")
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := singleLine("title", args)
	if err != nil {
		return err
	}
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}

	raw := createEstimate
	if raw == "" {
		raw = cfg.DefaultEstimate
	}
	estimate, err := workstream.ParseEstimate(raw)
	if err != nil {
		return err
	}

	st := workstream.DefaultStructure[estimate]
	if createStages > 0 {
		st.Stages = createStages
	}
	if createThreads > 0 {
		st.Supertasks = createThreads
	}
	if createTasks > 0 {
		st.Subtasks = createTasks
	}

	ws := workstream.NewFromStructure("", title, estimate, st)
	ws.CreatedBy = GetCurrentUser()
	ws.Summary = strings.TrimSpace(createSummary)

	w := cmd.OutOrStdout()
	if GetDryRun() {
		fmt.Fprintf(w, "[dry-run] would create %q (%s)\n\n", title, estimate)
		return document.Render(w, ws)
	}

	s := openStore()
	unlock, err := s.Lock(cmd.Context())
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.Create(ws); err != nil {
		return err
	}

	if formatter.IsStructured(GetOutput()) {
		return formatter.Encode(w, GetOutput(), "workstream", ws)
	}

	se, _ := estimate.Sessions()
	p := ws.Progress()
	fmt.Fprintf(w, "Created workstream %s\n", ws.ID)
	fmt.Fprintf(w, "  Estimate: %s (%s)\n", estimate, se)
	fmt.Fprintf(w, "  Plan:     %s (%s, %s)\n", s.PlanPath(ws.ID), plural(len(ws.Stages), "stage"), plural(p.Total, "task"))
	VerbosePrintf(w, "  Structure: %d stages x %d threads x %d tasks\n", st.Stages, st.Supertasks, st.Subtasks)
	return nil
}
