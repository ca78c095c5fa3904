package document

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/boshu2/workstreams/cli/internal/workstream"
)

// Render writes the workstream as a planning document. Parse(Render(w))
// reproduces w's structure, statuses and identifiers.
func Render(w io.Writer, ws *workstream.Workstream) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Workstream: %s\n", oneLine(ws.Title))
	if ws.Summary != "" {
		fmt.Fprintf(bw, "\n%s\n", escapeText(ws.Summary))
	}

	for _, s := range ws.Stages {
		fmt.Fprintf(bw, "\n## %s\n", sectionTitle("Stage", s.Index, s.Title))
		for _, b := range s.Batches {
			fmt.Fprintf(bw, "\n### %s\n", sectionTitle("Batch", b.Index, b.Title))
			for _, th := range b.Threads {
				fmt.Fprintf(bw, "\n#### %s\n", sectionTitle("Thread", th.Index, th.Title))
				if th.Summary != "" {
					fmt.Fprintf(bw, "\n%s\n", escapeText(th.Summary))
				}
				if len(th.Tasks) > 0 {
					fmt.Fprintln(bw)
				}
				for _, t := range th.Tasks {
					fmt.Fprintln(bw, TaskLine(t))
				}
			}
		}
	}

	return bw.Flush()
}

// RenderString renders to a string; used for checksums and previews.
func RenderString(ws *workstream.Workstream) string {
	var buf bytes.Buffer
	_ = Render(&buf, ws) //nolint:errcheck // bytes.Buffer writes do not fail
	return buf.String()
}

// TaskLine formats a single checklist line.
func TaskLine(t *workstream.Task) string {
	parts := []string{"-", "[" + markerForStatus(t.Status) + "]"}
	if t.ID != "" {
		parts = append(parts, t.ID)
	}
	if t.Description != "" {
		parts = append(parts, oneLine(t.Description))
	}
	return strings.Join(parts, " ")
}

func sectionTitle(kind string, idx int, title string) string {
	if title == "" {
		return fmt.Sprintf("%s %02d", kind, idx)
	}
	return fmt.Sprintf("%s %02d: %s", kind, idx, oneLine(title))
}

// oneLine folds line breaks in titles and descriptions into spaces.
func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

// escapeText backslash-escapes summary lines that would otherwise read
// back as headings or tasks. Parse removes the escape.
func escapeText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if needsEscape(line) {
			lines[i] = `\` + line
		}
	}
	return strings.Join(lines, "\n")
}

func needsEscape(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, `\`) ||
		headerRegex.MatchString(trimmed) ||
		taskRegex.MatchString(trimmed)
}

func markerForStatus(s workstream.Status) string {
	switch s {
	case workstream.StatusComplete:
		return "x"
	case workstream.StatusInProgress:
		return "~"
	default:
		return " "
	}
}
