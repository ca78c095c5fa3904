package store

import (
	"time"

	"github.com/boshu2/workstreams/cli/internal/workstream"
)

// IndexVersion is the current index.json schema version.
const IndexVersion = 1

// Index is the registry of workstreams in a work directory.
type Index struct {
	Version     int     `json:"version"`
	Current     string  `json:"current,omitempty"`
	Workstreams []Entry `json:"workstreams"`
}

// Entry is the metadata kept for a workstream alongside its PLAN.md.
type Entry struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Estimate    workstream.Estimate `json:"estimate,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	CreatedBy   string              `json:"created_by,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Approval    workstream.Approval `json:"approval"`
}

// Find returns the entry with the given ID.
func (idx *Index) Find(id string) (Entry, int, bool) {
	for i, e := range idx.Workstreams {
		if e.ID == id {
			return e, i, true
		}
	}
	return Entry{}, -1, false
}

// nextSeq returns one more than the highest sequence number in use.
func (idx *Index) nextSeq() int {
	highest := 0
	for _, e := range idx.Workstreams {
		if n := SeqOf(e.ID); n > highest {
			highest = n
		}
	}
	return highest + 1
}

func (idx *Index) remove(id string) bool {
	_, i, ok := idx.Find(id)
	if !ok {
		return false
	}
	idx.Workstreams = append(idx.Workstreams[:i], idx.Workstreams[i+1:]...)
	if idx.Current == id {
		idx.Current = ""
	}
	return true
}

// entryFor captures the index metadata of a workstream.
func entryFor(ws *workstream.Workstream) Entry {
	return Entry{
		ID:        ws.ID,
		Title:     ws.Title,
		Estimate:  ws.Estimate,
		CreatedAt: ws.CreatedAt,
		CreatedBy: ws.CreatedBy,
		Approval:  ws.Approval,
	}
}

// applyTo copies index metadata onto a workstream parsed from its PLAN.md.
func (e Entry) applyTo(ws *workstream.Workstream) {
	ws.ID = e.ID
	ws.Estimate = e.Estimate
	ws.CreatedAt = e.CreatedAt
	ws.CreatedBy = e.CreatedBy
	ws.Approval = e.Approval
	if ws.Approval.Status == "" {
		ws.Approval.Status = workstream.ApprovalPending
	}
	if ws.Title == "" {
		ws.Title = e.Title
	}
}
