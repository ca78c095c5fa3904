package workstream

// Node is any level of the hierarchy whose status is derived from its children.
type Node interface {
	ChildStatuses() []Status
}

// ComputeStatus derives a parent status from its children: complete only if
// every child is complete, not_started only if every child is not_started,
// in_progress otherwise. No children means not_started.
func ComputeStatus(children ...Status) Status {
	if len(children) == 0 {
		return StatusNotStarted
	}
	allComplete, allNotStarted := true, true
	for _, s := range children {
		if s != StatusComplete {
			allComplete = false
		}
		if s != StatusNotStarted {
			allNotStarted = false
		}
	}
	switch {
	case allComplete:
		return StatusComplete
	case allNotStarted:
		return StatusNotStarted
	default:
		return StatusInProgress
	}
}

// StatusOf derives the status of n from the current statuses of its children.
func StatusOf(n Node) Status {
	return ComputeStatus(n.ChildStatuses()...)
}

// ChildStatuses implements Node.
func (th *Thread) ChildStatuses() []Status {
	out := make([]Status, len(th.Tasks))
	for i, t := range th.Tasks {
		out[i] = t.Status
	}
	return out
}

// ChildStatuses implements Node.
func (b *Batch) ChildStatuses() []Status {
	out := make([]Status, len(b.Threads))
	for i, th := range b.Threads {
		out[i] = th.Status
	}
	return out
}

// ChildStatuses implements Node.
func (s *Stage) ChildStatuses() []Status {
	out := make([]Status, len(s.Batches))
	for i, b := range s.Batches {
		out[i] = b.Status
	}
	return out
}

// ChildStatuses implements Node.
func (w *Workstream) ChildStatuses() []Status {
	out := make([]Status, len(w.Stages))
	for i, s := range w.Stages {
		out[i] = s.Status
	}
	return out
}

// Derive recomputes every derived status bottom-up.
func (w *Workstream) Derive() {
	for _, s := range w.Stages {
		for _, b := range s.Batches {
			for _, th := range b.Threads {
				th.Status = StatusOf(th)
			}
			b.Status = StatusOf(b)
		}
		s.Status = StatusOf(s)
	}
	w.Status = StatusOf(w)
}

// Progress counts tasks by state.
type Progress struct {
	Total      int `json:"total" yaml:"total" toml:"total"`
	Complete   int `json:"complete" yaml:"complete" toml:"complete"`
	InProgress int `json:"in_progress" yaml:"in_progress" toml:"in_progress"`
}

// Percent returns the share of complete tasks, 0-100.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Complete * 100 / p.Total
}

// Progress tallies every task in the workstream.
func (w *Workstream) Progress() Progress {
	var p Progress
	for _, ref := range w.Tasks() {
		p.Total++
		switch ref.Task.Status {
		case StatusComplete:
			p.Complete++
		case StatusInProgress:
			p.InProgress++
		}
	}
	return p
}

// Progress tallies the tasks of a single thread.
func (th *Thread) Progress() Progress {
	var p Progress
	for _, t := range th.Tasks {
		p.Total++
		switch t.Status {
		case StatusComplete:
			p.Complete++
		case StatusInProgress:
			p.InProgress++
		}
	}
	return p
}
