package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/formatter"
	"github.com/boshu2/workstreams/cli/internal/store"
	"github.com/boshu2/workstreams/cli/internal/style"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var statusCmd = &cobra.Command{
	Use:   "status [workstream]",
	Short: "Show a workstream's tree and progress",
	Long: `Display the stage, batch and thread tree of a workstream with derived
statuses, task progress, the session estimate and the approval state.

Examples:
  ws status
  ws status payments
  ws status 3 -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.GroupID = "core"
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	ID            string                      `json:"id" yaml:"id" toml:"id"`
	Title         string                      `json:"title" yaml:"title" toml:"title"`
	Status        workstream.Status           `json:"status" yaml:"status" toml:"status"`
	Estimate      workstream.Estimate         `json:"estimate,omitempty" yaml:"estimate,omitempty" toml:"estimate,omitempty"`
	Sessions      *workstream.SessionEstimate `json:"sessions,omitempty" yaml:"sessions,omitempty" toml:"sessions,omitempty"`
	Progress      workstream.Progress         `json:"progress" yaml:"progress" toml:"progress"`
	Approval      workstream.Approval         `json:"approval" yaml:"approval" toml:"approval"`
	ApprovalStale bool                        `json:"approval_stale" yaml:"approval_stale" toml:"approval_stale"`
	Stages        []*workstream.Stage         `json:"stages" yaml:"stages" toml:"stages"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	s := openStore()
	ws, _, err := loadTarget(s, target(args))
	if err != nil {
		return err
	}

	out := statusOutput{
		ID:            ws.ID,
		Title:         ws.Title,
		Status:        ws.Status,
		Estimate:      ws.Estimate,
		Progress:      ws.Progress(),
		Approval:      ws.Approval,
		ApprovalStale: ws.Approval.IsStale(store.PlanChecksum(ws)),
		Stages:        ws.Stages,
	}
	if se, ok := ws.Estimate.Sessions(); ok {
		out.Sessions = &se
	}

	w := cmd.OutOrStdout()
	if formatter.IsStructured(GetOutput()) {
		return formatter.Encode(w, GetOutput(), "status", out)
	}
	printStatus(w, stylesFor(cmd), out)
	return nil
}

func printStatus(w io.Writer, st *style.Styles, out statusOutput) {
	fmt.Fprintf(w, "%s  %s\n", st.Title.Render(out.Title), st.Muted.Render(out.ID))
	fmt.Fprintf(w, "Status:   %s  %s  %d/%d tasks\n",
		st.Status(out.Status), st.Progress(out.Progress.Percent(), 20), out.Progress.Complete, out.Progress.Total)
	if out.Sessions != nil {
		fmt.Fprintf(w, "Estimate: %s (%s)\n", out.Estimate, out.Sessions)
	}
	approval := st.Approval(out.Approval.Status)
	if out.Approval.By != "" {
		approval += st.Muted.Render(" by " + out.Approval.By)
	}
	if out.ApprovalStale {
		approval += " " + st.Warn.Render("(plan changed since approval)")
	}
	fmt.Fprintf(w, "Approval: %s\n", approval)

	for _, s := range out.Stages {
		fmt.Fprintf(w, "\n%s %s\n", st.Heading.Render(fmt.Sprintf("Stage %02d: %s", s.Index, s.Title)), st.Status(s.Status))
		for _, b := range s.Batches {
			fmt.Fprintf(w, "  Batch %02d: %s  %s\n", b.Index, b.Title, st.Status(b.Status))
			for _, th := range b.Threads {
				p := th.Progress()
				fmt.Fprintf(w, "    %s Thread %02d: %s  %s\n",
					statusIcon(th.Status), th.Index, th.Title, st.Muted.Render(fmt.Sprintf("%d/%d", p.Complete, p.Total)))
			}
		}
	}
}

func statusIcon(s workstream.Status) string {
	return "[" + markerFor(s) + "]"
}
