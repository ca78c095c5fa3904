package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/formatter"
	"github.com/boshu2/workstreams/cli/internal/store"
	"github.com/boshu2/workstreams/cli/internal/worker"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workstreams",
	Long: `List every workstream with its derived status and progress.

Plans are loaded in parallel. The current workstream is marked with *.

Examples:
  ws list
  ws list --status in_progress
  ws list -o json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.GroupID = "core"
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listStatus, "status", "", "Only show workstreams with this status")
}

type listRow struct {
	ID       string              `json:"id" yaml:"id" toml:"id"`
	Title    string              `json:"title" yaml:"title" toml:"title"`
	Status   workstream.Status   `json:"status" yaml:"status" toml:"status"`
	Estimate workstream.Estimate `json:"estimate,omitempty" yaml:"estimate,omitempty" toml:"estimate,omitempty"`
	Progress workstream.Progress `json:"progress" yaml:"progress" toml:"progress"`
	Approval string              `json:"approval" yaml:"approval" toml:"approval"`
	Current  bool                `json:"current" yaml:"current" toml:"current"`
	Error    string              `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`

	approval workstream.ApprovalStatus
}

// loadRows loads every entry's plan through the worker pool. Entries whose
// plan cannot be read keep their index metadata and carry the error.
func loadRows(ctx context.Context, s *store.Store, entries []store.Entry, current string) []listRow {
	pool := worker.NewPool[store.Entry, *workstream.Workstream](0)
	results := pool.Process(ctx, entries, func(_ context.Context, e store.Entry) (*workstream.Workstream, error) {
		ws, _, err := s.Load(e.ID)
		return ws, err
	})

	rows := make([]listRow, len(entries))
	for i, e := range entries {
		row := listRow{
			ID:       e.ID,
			Title:    e.Title,
			Estimate: e.Estimate,
			Approval: workstream.FormatApprovalIcon(string(e.Approval.Status)),
			Current:  e.ID == current,
			approval: e.Approval.Status,
		}
		if err := results[i].Err; err != nil {
			logger.Warn("could not load workstream", "id", e.ID, "error", err)
			row.Error = err.Error()
		} else {
			ws := results[i].Value
			row.Status = ws.Status
			row.Progress = ws.Progress()
		}
		rows[i] = row
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	var filter workstream.Status
	if listStatus != "" {
		st, err := workstream.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		filter = st
	}

	s := openStore()
	idx, err := s.ReadIndex()
	if err != nil {
		return err
	}

	rows := loadRows(cmd.Context(), s, idx.Workstreams, idx.Current)
	if filter != "" {
		kept := rows[:0]
		for _, r := range rows {
			if r.Status == filter {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	w := cmd.OutOrStdout()
	if formatter.IsStructured(GetOutput()) {
		return formatter.Encode(w, GetOutput(), "workstreams", rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No workstreams found.")
		return nil
	}

	st := stylesFor(cmd)
	tbl := formatter.NewTable(w, "", "ID", "TITLE", "STATUS", "PROGRESS", "ESTIMATE", "APPROVAL")
	tbl.SetMaxWidth(2, 40)
	for _, r := range rows {
		marker := ""
		if r.Current {
			marker = "*"
		}
		status := st.Status(r.Status)
		progress := st.Progress(r.Progress.Percent(), 10)
		if r.Error != "" {
			status = st.Error.Render("unreadable")
			progress = "-"
		}
		tbl.AddRow(marker, r.ID, r.Title, status, progress, string(r.Estimate), st.Approval(r.approval))
	}
	return tbl.Render()
}
