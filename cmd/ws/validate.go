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

var validateAll bool

var validateCmd = &cobra.Command{
	Use:   "validate [workstream]",
	Short: "Check a plan for structural problems",
	Long: `Validate parses PLAN.md and checks the workstream model:

  - duplicate task IDs and duplicate stage/batch/thread numbers
  - tasks whose ID does not match the thread they sit in
  - more than 8 threads in a batch
  - missing task IDs and empty threads
  - malformed nesting, unknown headings and malformed task lines

Unchecked tasks are reported as info with -v. The command exits non-zero
when any error is found.

Examples:
  ws validate
  ws validate --all -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.GroupID = "core"
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateAll, "all", false, "Validate every workstream")
}

type validateResult struct {
	ID          string                 `json:"id" yaml:"id" toml:"id"`
	Valid       bool                   `json:"valid" yaml:"valid" toml:"valid"`
	Errors      int                    `json:"errors" yaml:"errors" toml:"errors"`
	Warnings    int                    `json:"warnings" yaml:"warnings" toml:"warnings"`
	Diagnostics workstream.Diagnostics `json:"diagnostics" yaml:"diagnostics" toml:"diagnostics"`
}

func validateOne(s *store.Store, id string) (validateResult, error) {
	ws, parsed, err := s.Load(id)
	if err != nil {
		return validateResult{ID: id}, err
	}
	diags := allDiagnostics(ws, parsed)
	return validateResult{
		ID:          id,
		Valid:       !diags.HasErrors(),
		Errors:      diags.Count(workstream.SeverityError),
		Warnings:    diags.Count(workstream.SeverityWarning),
		Diagnostics: diags,
	}, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	s := openStore()

	var ids []string
	if validateAll {
		entries, err := s.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
	} else {
		entry, err := s.Resolve(target(args))
		if err != nil {
			return err
		}
		ids = []string{entry.ID}
	}

	pool := worker.NewPool[string, validateResult](0)
	results := pool.Process(cmd.Context(), ids, func(_ context.Context, id string) (validateResult, error) {
		return validateOne(s, id)
	})
	if errs := worker.Errors(results); len(errs) > 0 {
		return errs[0]
	}

	out := make([]validateResult, len(results))
	failed := 0
	for i, r := range results {
		out[i] = r.Value
		if !r.Value.Valid {
			failed++
		}
	}

	w := cmd.OutOrStdout()
	if formatter.IsStructured(GetOutput()) {
		if err := formatter.Encode(w, GetOutput(), "results", out); err != nil {
			return err
		}
	} else {
		st := stylesFor(cmd)
		for _, r := range out {
			verdict := st.OK.Render("VALID")
			if !r.Valid {
				verdict = st.Error.Render("INVALID")
			}
			summary := ""
			if r.Errors+r.Warnings > 0 {
				summary = st.Muted.Render(fmt.Sprintf(" (%s, %s)", plural(r.Errors, "error"), plural(r.Warnings, "warning")))
			}
			fmt.Fprintf(w, "%s: %s%s\n", r.ID, verdict, summary)
			printDiagnostics(cmd, w, r.Diagnostics)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d workstreams have errors", errValidationFailed, failed, len(out))
	}
	return nil
}
