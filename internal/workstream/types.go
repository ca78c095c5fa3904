// Package workstream holds the in-memory model of a workstream plan:
// workstream -> stages -> batches -> threads -> tasks.
//
// The model owns no persistence. It is rebuilt from a planning document by
// internal/document and written back the same way. Status on every non-leaf
// node is derived from its children; call Derive after structural edits.
package workstream

import (
	"time"
)

// Status is the lifecycle state shared by every level of the hierarchy.
type Status string

const (
	// StatusNotStarted means no work has begun.
	StatusNotStarted Status = "not_started"

	// StatusInProgress means some but not all work is done.
	StatusInProgress Status = "in_progress"

	// StatusComplete means all work is done.
	StatusComplete Status = "complete"
)

// ValidStatuses enumerates the allowed Status values.
var ValidStatuses = map[Status]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusComplete:   true,
}

// ParseStatus converts user input into a Status. Hyphenated and short forms
// ("not-started", "done", "wip") are accepted.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "not_started", "not-started", "todo", "pending":
		return StatusNotStarted, nil
	case "in_progress", "in-progress", "wip", "started":
		return StatusInProgress, nil
	case "complete", "completed", "done":
		return StatusComplete, nil
	}
	return "", &StatusError{Value: s}
}

// Workstream is the top-level planning unit.
type Workstream struct {
	ID        string    `json:"id" yaml:"id" toml:"id"`
	Title     string    `json:"title" yaml:"title" toml:"title"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
	Status    Status    `json:"status" yaml:"status" toml:"status"`
	Estimate  Estimate  `json:"estimate,omitempty" yaml:"estimate,omitempty" toml:"estimate,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty" toml:"created_at,omitempty"`
	CreatedBy string    `json:"created_by,omitempty" yaml:"created_by,omitempty" toml:"created_by,omitempty"`
	Approval  Approval  `json:"approval" yaml:"approval" toml:"approval"`
	Stages    []*Stage  `json:"stages" yaml:"stages" toml:"stages"`
}

// Stage is an ordered phase of a workstream.
type Stage struct {
	Index   int      `json:"index" yaml:"index" toml:"index"`
	Title   string   `json:"title" yaml:"title" toml:"title"`
	Status  Status   `json:"status" yaml:"status" toml:"status"`
	Batches []*Batch `json:"batches" yaml:"batches" toml:"batches"`
	Line    int      `json:"-" yaml:"-" toml:"-"`
}

// Batch groups threads that can run in parallel. A batch holds at most
// MaxThreadsPerBatch threads.
type Batch struct {
	Index   int       `json:"index" yaml:"index" toml:"index"`
	Title   string    `json:"title" yaml:"title" toml:"title"`
	Status  Status    `json:"status" yaml:"status" toml:"status"`
	Threads []*Thread `json:"threads" yaml:"threads" toml:"threads"`
	Line    int       `json:"-" yaml:"-" toml:"-"`
}

// Thread is a unit of parallel work inside a batch.
type Thread struct {
	Index   int     `json:"index" yaml:"index" toml:"index"`
	Title   string  `json:"title" yaml:"title" toml:"title"`
	Summary string  `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
	Status  Status  `json:"status" yaml:"status" toml:"status"`
	Tasks   []*Task `json:"tasks" yaml:"tasks" toml:"tasks"`
	Line    int     `json:"-" yaml:"-" toml:"-"`
}

// Task is a leaf checklist item. Checked mirrors Status == StatusComplete.
type Task struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Checked     bool   `json:"checked" yaml:"checked" toml:"checked"`
	Status      Status `json:"status" yaml:"status" toml:"status"`
	Line        int    `json:"-" yaml:"-" toml:"-"`
}

// SetStatus updates the task status and keeps Checked in sync.
func (t *Task) SetStatus(s Status) {
	t.Status = s
	t.Checked = s == StatusComplete
}

// Location pins a node inside the hierarchy. Zero indices mean "not
// applicable"; Line is the 1-based source line when known.
type Location struct {
	Stage  int    `json:"stage,omitempty"`
	Batch  int    `json:"batch,omitempty"`
	Thread int    `json:"thread,omitempty"`
	TaskID string `json:"task_id,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// ThreadRef formats the stage/batch/thread prefix of the location, e.g. "01.02.03".
func (l Location) ThreadRef() string {
	return FormatThreadRef(l.Stage, l.Batch, l.Thread)
}

// TaskRef pairs a task with its position in the hierarchy.
type TaskRef struct {
	Task     *Task
	Location Location
}
