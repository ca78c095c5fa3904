// Package document reads and writes the PLAN.md planning document that backs
// a workstream.
//
// Layout:
//
//	# Workstream: <title>
//	## Stage 01: <title>
//	### Batch 01: <title>
//	#### Thread 01: <title>
//	- [ ] 01.01.01.01 <description>
//
// Checkbox markers: "[ ]" not started, "[~]" in progress, "[x]" complete.
package document

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/boshu2/workstreams/cli/internal/workstream"
)

var (
	headerRegex  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	sectionRegex = regexp.MustCompile(`(?i)^(stage|batch|thread)\s+(\d+)\s*(?::\s*(.*))?$`)
	taskRegex    = regexp.MustCompile(`^(\s*)[-*]\s+\[([ xX~])\]\s*(.*)$`)
	taskIDRegex  = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+)\s+(.*)$`)

	workstreamPrefix = "workstream:"
)

// maxLineLength bounds a single PLAN.md line.
const maxLineLength = 1 << 20

type parseState struct {
	ws      *workstream.Workstream
	stage   *workstream.Stage
	batch   *workstream.Batch
	thread  *workstream.Thread
	skip    bool // inside a section that could not be placed
	diags   workstream.Diagnostics
	summary []string
}

// Parse reads a planning document into a workstream. Structural problems
// (misplaced headings, tasks outside threads, unknown headings) are returned
// as diagnostics; the error is reserved for read failures.
func Parse(r io.Reader) (*workstream.Workstream, workstream.Diagnostics, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	st := &parseState{
		ws: &workstream.Workstream{
			Status:   workstream.StatusNotStarted,
			Approval: workstream.Approval{Status: workstream.ApprovalPending},
			Stages:   make([]*workstream.Stage, 0),
		},
	}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if matches := headerRegex.FindStringSubmatch(line); matches != nil {
			st.heading(len(matches[1]), strings.TrimSpace(matches[2]), lineNum)
			continue
		}

		if matches := taskRegex.FindStringSubmatch(line); matches != nil {
			st.task(matches[1], matches[2], strings.TrimSpace(matches[3]), lineNum)
			continue
		}

		st.text(unescapeText(strings.TrimSpace(line)), lineNum)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read plan: %w", err)
	}

	st.ws.Summary = strings.Join(st.summary, "\n")
	st.ws.Derive()
	return st.ws, st.diags, nil
}

func (st *parseState) report(sev workstream.Severity, code, msg string, loc workstream.Location) {
	st.diags = append(st.diags, workstream.Diagnostic{
		Severity:  sev,
		Code:      code,
		Message:   msg,
		Locations: []workstream.Location{loc},
	})
}

func (st *parseState) heading(level int, text string, line int) {
	// First H1 is the workstream title.
	if level == 1 && st.ws.Title == "" && st.stage == nil {
		title := text
		if strings.HasPrefix(strings.ToLower(title), workstreamPrefix) {
			title = strings.TrimSpace(title[len(workstreamPrefix):])
		}
		st.ws.Title = title
		return
	}

	matches := sectionRegex.FindStringSubmatch(text)
	if matches == nil {
		st.skip = true
		st.report(workstream.SeverityWarning, workstream.CodeUnknownHeading,
			fmt.Sprintf("heading %q is not a stage, batch or thread; content up to the next section is ignored", text),
			workstream.Location{Line: line})
		return
	}

	idx, _ := strconv.Atoi(matches[2])
	title := strings.TrimSpace(matches[3])
	st.skip = false

	switch strings.ToLower(matches[1]) {
	case "stage":
		st.stage = &workstream.Stage{Index: idx, Title: title, Line: line, Batches: make([]*workstream.Batch, 0)}
		st.ws.Stages = append(st.ws.Stages, st.stage)
		st.batch, st.thread = nil, nil

	case "batch":
		if st.stage == nil {
			st.skip = true
			st.batch, st.thread = nil, nil
			st.report(workstream.SeverityError, workstream.CodeMalformedNesting,
				fmt.Sprintf("batch %02d appears before any stage", idx),
				workstream.Location{Batch: idx, Line: line})
			return
		}
		st.batch = &workstream.Batch{Index: idx, Title: title, Line: line, Threads: make([]*workstream.Thread, 0)}
		st.stage.Batches = append(st.stage.Batches, st.batch)
		st.thread = nil

	case "thread":
		if st.batch == nil {
			st.skip = true
			st.thread = nil
			loc := workstream.Location{Thread: idx, Line: line}
			if st.stage != nil {
				loc.Stage = st.stage.Index
			}
			st.report(workstream.SeverityError, workstream.CodeMalformedNesting,
				fmt.Sprintf("thread %02d appears outside a batch", idx), loc)
			return
		}
		st.thread = &workstream.Thread{Index: idx, Title: title, Line: line, Tasks: make([]*workstream.Task, 0)}
		st.batch.Threads = append(st.batch.Threads, st.thread)
	}
}

func (st *parseState) task(indent, marker, rest string, line int) {
	if st.skip {
		return
	}
	if st.thread == nil {
		st.report(workstream.SeverityError, workstream.CodeMalformedNesting,
			fmt.Sprintf("task %q appears outside a thread", rest),
			st.location(line))
		return
	}

	t := &workstream.Task{Description: rest, Line: line}
	if m := taskIDRegex.FindStringSubmatch(rest); m != nil {
		t.ID = m[1]
		t.Description = strings.TrimSpace(m[2])
	}
	t.SetStatus(statusForMarker(marker))

	if indent != "" {
		st.report(workstream.SeverityWarning, workstream.CodeMalformedTask,
			fmt.Sprintf("nested checklist item %q is flattened into thread %s", t.Description,
				workstream.FormatThreadRef(st.stage.Index, st.batch.Index, st.thread.Index)),
			st.location(line))
	}
	st.thread.Tasks = append(st.thread.Tasks, t)
}

func (st *parseState) text(text string, line int) {
	if st.skip {
		return
	}
	switch {
	case st.thread != nil && len(st.thread.Tasks) == 0:
		if st.thread.Summary != "" {
			st.thread.Summary += "\n"
		}
		st.thread.Summary += text
	case st.stage == nil:
		st.summary = append(st.summary, text)
	default:
		st.report(workstream.SeverityInfo, workstream.CodeStrayText,
			fmt.Sprintf("text %q is not part of a thread summary and is dropped on save", truncate(text, 40)),
			st.location(line))
	}
}

func (st *parseState) location(line int) workstream.Location {
	loc := workstream.Location{Line: line}
	if st.stage != nil {
		loc.Stage = st.stage.Index
	}
	if st.batch != nil {
		loc.Batch = st.batch.Index
	}
	if st.thread != nil {
		loc.Thread = st.thread.Index
	}
	return loc
}

func statusForMarker(marker string) workstream.Status {
	switch marker {
	case "x", "X":
		return workstream.StatusComplete
	case "~":
		return workstream.StatusInProgress
	default:
		return workstream.StatusNotStarted
	}
}

// unescapeText drops the backslash Render puts before summary lines that
// look like headings or tasks.
func unescapeText(s string) string {
	return strings.TrimPrefix(s, `\`)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
