package workstream

import (
	"fmt"
	"sort"
	"strings"
)

// Severity ranks a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic codes.
const (
	CodeDuplicateTaskID  = "duplicate-task-id"
	CodeDuplicateIndex   = "duplicate-index"
	CodeThreadLimit      = "thread-limit"
	CodeOrphanedTask     = "orphaned-task"
	CodeMissingTaskID    = "missing-task-id"
	CodeMissingID        = "missing-workstream-id"
	CodeEmptyThread      = "empty-thread"
	CodeUncheckedTask    = "unchecked-task"
	CodeMalformedNesting = "malformed-nesting"
	CodeUnknownHeading   = "unknown-heading"
	CodeMalformedTask    = "malformed-task"
	CodeStrayText        = "stray-text"
)

// Diagnostic is a structural finding. Diagnostics are data: validation never
// fails, it reports.
type Diagnostic struct {
	Severity  Severity   `json:"severity"`
	Code      string     `json:"code"`
	Message   string     `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if len(d.Locations) > 0 && d.Locations[0].Line > 0 {
		fmt.Fprintf(&b, "line %d: ", d.Locations[0].Line)
	}
	fmt.Fprintf(&b, "%s [%s]", d.Message, d.Code)
	return b.String()
}

// Diagnostics is an ordered list of findings.
type Diagnostics []Diagnostic

// HasErrors reports whether any finding has error severity.
func (ds Diagnostics) HasErrors() bool {
	return ds.Count(SeverityError) > 0
}

// Count returns the number of findings with the given severity.
func (ds Diagnostics) Count(sev Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// ByCode returns the findings with the given code.
func (ds Diagnostics) ByCode(code string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Filter drops findings below the minimum severity (error > warning > info).
func (ds Diagnostics) Filter(floor Severity) Diagnostics {
	rank := map[Severity]int{SeverityInfo: 0, SeverityWarning: 1, SeverityError: 2}
	var out Diagnostics
	for _, d := range ds {
		if rank[d.Severity] >= rank[floor] {
			out = append(out, d)
		}
	}
	return out
}

// Validate walks the hierarchy and reports structural issues.
func Validate(w *Workstream) Diagnostics {
	var ds Diagnostics
	if w == nil {
		return ds
	}
	if strings.TrimSpace(w.ID) == "" {
		ds = append(ds, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeMissingID,
			Message:  "workstream has no identifier",
		})
	}

	ds = append(ds, validateIndices(w)...)
	ds = append(ds, validateThreadLimits(w)...)
	ds = append(ds, validateTaskIDs(w)...)
	ds = append(ds, validateTasks(w)...)
	return ds
}

// validateIndices checks sequence indices are unique within each parent.
func validateIndices(w *Workstream) Diagnostics {
	var ds Diagnostics
	stageSeen := make(map[int]*Stage)
	for _, s := range w.Stages {
		if prev, ok := stageSeen[s.Index]; ok {
			ds = append(ds, Diagnostic{
				Severity:  SeverityError,
				Code:      CodeDuplicateIndex,
				Message:   fmt.Sprintf("stage %02d appears more than once", s.Index),
				Locations: []Location{{Stage: s.Index, Line: prev.Line}, {Stage: s.Index, Line: s.Line}},
			})
		}
		stageSeen[s.Index] = s

		batchSeen := make(map[int]*Batch)
		for _, b := range s.Batches {
			if prev, ok := batchSeen[b.Index]; ok {
				ds = append(ds, Diagnostic{
					Severity: SeverityError,
					Code:     CodeDuplicateIndex,
					Message:  fmt.Sprintf("batch %02d.%02d appears more than once", s.Index, b.Index),
					Locations: []Location{
						{Stage: s.Index, Batch: b.Index, Line: prev.Line},
						{Stage: s.Index, Batch: b.Index, Line: b.Line},
					},
				})
			}
			batchSeen[b.Index] = b

			threadSeen := make(map[int]*Thread)
			for _, th := range b.Threads {
				if prev, ok := threadSeen[th.Index]; ok {
					ds = append(ds, Diagnostic{
						Severity: SeverityError,
						Code:     CodeDuplicateIndex,
						Message:  fmt.Sprintf("thread %s appears more than once", FormatThreadRef(s.Index, b.Index, th.Index)),
						Locations: []Location{
							{Stage: s.Index, Batch: b.Index, Thread: th.Index, Line: prev.Line},
							{Stage: s.Index, Batch: b.Index, Thread: th.Index, Line: th.Line},
						},
					})
				}
				threadSeen[th.Index] = th
			}
		}
	}
	return ds
}

// validateThreadLimits flags batches above MaxThreadsPerBatch.
func validateThreadLimits(w *Workstream) Diagnostics {
	var ds Diagnostics
	for _, s := range w.Stages {
		for _, b := range s.Batches {
			if len(b.Threads) <= MaxThreadsPerBatch {
				continue
			}
			loc := Location{Stage: s.Index, Batch: b.Index, Line: b.Line}
			if extra := b.Threads[MaxThreadsPerBatch]; extra.Line > 0 {
				loc.Thread = extra.Index
				loc.Line = extra.Line
			}
			ds = append(ds, Diagnostic{
				Severity: SeverityError,
				Code:     CodeThreadLimit,
				Message: fmt.Sprintf("batch %02d.%02d has %d threads (max %d)",
					s.Index, b.Index, len(b.Threads), MaxThreadsPerBatch),
				Locations: []Location{loc},
			})
		}
	}
	return ds
}

// validateTaskIDs reports missing and duplicate task identifiers. Each
// duplicated identifier yields one diagnostic naming every location.
func validateTaskIDs(w *Workstream) Diagnostics {
	var ds Diagnostics
	byID := make(map[string][]Location)
	var order []string
	for _, ref := range w.Tasks() {
		id := strings.TrimSpace(ref.Task.ID)
		if id == "" {
			ds = append(ds, Diagnostic{
				Severity:  SeverityWarning,
				Code:      CodeMissingTaskID,
				Message:   fmt.Sprintf("task %q in thread %s has no identifier", ref.Task.Description, ref.Location.ThreadRef()),
				Locations: []Location{ref.Location},
			})
			continue
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = append(byID[id], ref.Location)
	}
	for _, id := range order {
		locs := byID[id]
		if len(locs) < 2 {
			continue
		}
		where := make([]string, len(locs))
		for i, l := range locs {
			where[i] = "thread " + l.ThreadRef()
			if l.Line > 0 {
				where[i] += fmt.Sprintf(" (line %d)", l.Line)
			}
		}
		ds = append(ds, Diagnostic{
			Severity:  SeverityError,
			Code:      CodeDuplicateTaskID,
			Message:   fmt.Sprintf("task id %s is used %d times: %s", id, len(locs), strings.Join(where, ", ")),
			Locations: locs,
		})
	}
	return ds
}

// validateTasks reports orphaned task references, empty threads and
// unchecked tasks. Duplicated identifiers are left to validateTaskIDs.
func validateTasks(w *Workstream) Diagnostics {
	var ds Diagnostics
	idCount := make(map[string]int)
	for _, ref := range w.Tasks() {
		idCount[strings.TrimSpace(ref.Task.ID)]++
	}
	threads := make(map[string]bool)
	for _, s := range w.Stages {
		for _, b := range s.Batches {
			for _, th := range b.Threads {
				threads[FormatThreadRef(s.Index, b.Index, th.Index)] = true
			}
		}
	}

	for _, s := range w.Stages {
		for _, b := range s.Batches {
			for _, th := range b.Threads {
				here := FormatThreadRef(s.Index, b.Index, th.Index)
				if len(th.Tasks) == 0 {
					ds = append(ds, Diagnostic{
						Severity:  SeverityWarning,
						Code:      CodeEmptyThread,
						Message:   fmt.Sprintf("thread %s %q has no tasks", here, th.Title),
						Locations: []Location{{Stage: s.Index, Batch: b.Index, Thread: th.Index, Line: th.Line}},
					})
				}
				for _, t := range th.Tasks {
					if idCount[strings.TrimSpace(t.ID)] > 1 {
						continue
					}
					loc := Location{Stage: s.Index, Batch: b.Index, Thread: th.Index, TaskID: t.ID, Line: t.Line}
					if d, ok := orphanCheck(t, here, threads, loc); ok {
						ds = append(ds, d)
					}
				}
			}
		}
	}

	for _, ref := range w.Unchecked() {
		ds = append(ds, Diagnostic{
			Severity:  SeverityInfo,
			Code:      CodeUncheckedTask,
			Message:   fmt.Sprintf("task %s is unchecked: %s", ref.Task.ID, ref.Task.Description),
			Locations: []Location{ref.Location},
		})
	}
	return ds
}

// orphanCheck flags a task whose identifier points at a thread other than
// the one containing it.
func orphanCheck(t *Task, here string, threads map[string]bool, loc Location) (Diagnostic, bool) {
	if t.ID == "" {
		return Diagnostic{}, false
	}
	s, b, th, _, ok := ParseTaskID(t.ID)
	if !ok {
		return Diagnostic{
			Severity:  SeverityWarning,
			Code:      CodeOrphanedTask,
			Message:   fmt.Sprintf("task id %q is not of the form SS.BB.TT.NN", t.ID),
			Locations: []Location{loc},
		}, true
	}
	target := FormatThreadRef(s, b, th)
	if target == here {
		return Diagnostic{}, false
	}
	msg := fmt.Sprintf("task %s sits in thread %s but its id refers to thread %s", t.ID, here, target)
	if !threads[target] {
		msg += ", which does not exist"
	}
	return Diagnostic{
		Severity:  SeverityWarning,
		Code:      CodeOrphanedTask,
		Message:   msg,
		Locations: []Location{loc},
	}, true
}

// SortByLine orders diagnostics by their first source line, keeping the
// original order for ties and for findings without a line.
func SortByLine(ds Diagnostics) {
	line := func(d Diagnostic) int {
		if len(d.Locations) == 0 {
			return 0
		}
		return d.Locations[0].Line
	}
	sort.SliceStable(ds, func(i, j int) bool {
		return line(ds[i]) < line(ds[j])
	})
}
