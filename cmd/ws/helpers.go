package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/workstreams/cli/internal/document"
	"github.com/boshu2/workstreams/cli/internal/store"
	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var (
	errValidationFailed = errors.New("validation failed")
	errIncomplete       = errors.New("workstream has incomplete tasks")
	errRemovedCommand   = errors.New("command removed")
	errMultiline        = errors.New("must be a single line")
)

// singleLine joins args into a title or description. Line breaks would
// split the entry in PLAN.md, so they are rejected.
func singleLine(what string, args []string) (string, error) {
	s := strings.TrimSpace(strings.Join(args, " "))
	if strings.ContainsAny(s, "\r\n") {
		return "", fmt.Errorf("%s %w", what, errMultiline)
	}
	return s, nil
}

// loadTarget resolves query and loads the workstream with its parse
// diagnostics.
func loadTarget(s *store.Store, query string) (*workstream.Workstream, workstream.Diagnostics, error) {
	entry, err := s.Resolve(query)
	if err != nil {
		return nil, nil, err
	}
	return s.Load(entry.ID)
}

// mutation edits a loaded workstream and describes the change for history.
type mutation func(ws *workstream.Workstream) (store.Event, error)

// mutate runs a locked load-edit-save pass on the workstream selected by
// query. With --dry-run the edit runs but nothing is written and the
// resulting plan is printed instead.
func mutate(cmd *cobra.Command, query string, fn mutation) (*workstream.Workstream, error) {
	s := openStore()
	unlock, err := s.Lock(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer unlock()

	ws, _, err := loadTarget(s, query)
	if err != nil {
		return nil, err
	}

	ev, err := fn(ws)
	if err != nil {
		return nil, err
	}
	ws.Derive()

	if GetDryRun() {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "[dry-run] would save %s (%s)\n\n", ws.ID, ev.Detail)
		return ws, document.Render(w, ws)
	}

	if err := s.Save(ws); err != nil {
		return nil, err
	}
	if ev.Actor == "" {
		ev.Actor = GetCurrentUser()
	}
	if err := s.Record(ws.ID, ev); err != nil {
		logger.Warn("could not record history", "id", ws.ID, "error", err)
	}
	return ws, nil
}

// printDiagnostics writes one line per diagnostic. Info findings are only
// shown in verbose mode.
func printDiagnostics(cmd *cobra.Command, w io.Writer, diags workstream.Diagnostics) {
	st := stylesFor(cmd)
	for _, d := range diags {
		if d.Severity == workstream.SeverityInfo && !cfg.Verbose {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", st.Severity(d.Severity), d.String())
		for _, loc := range d.Locations[min(1, len(d.Locations)):] {
			fmt.Fprintf(w, "      also at %s\n", describeLocation(loc))
		}
	}
}

func describeLocation(loc workstream.Location) string {
	var parts []string
	if loc.TaskID != "" {
		parts = append(parts, "task "+loc.TaskID)
	}
	if loc.Thread > 0 {
		parts = append(parts, "thread "+loc.ThreadRef())
	}
	if loc.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", loc.Line))
	}
	if len(parts) == 0 {
		return "workstream"
	}
	return strings.Join(parts, ", ")
}

// allDiagnostics merges parse and model findings in line order.
func allDiagnostics(ws *workstream.Workstream, parsed workstream.Diagnostics) workstream.Diagnostics {
	diags := append(workstream.Diagnostics{}, parsed...)
	diags = append(diags, workstream.Validate(ws)...)
	workstream.SortByLine(diags)
	return diags
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
