package workstream

import (
	"fmt"
	"strconv"
	"time"
)

// PlaceholderTask is the description given to tasks generated from a Structure.
const PlaceholderTask = "Describe this task"

// New returns an empty workstream.
func New(id, title string, estimate Estimate) *Workstream {
	return &Workstream{
		ID:        id,
		Title:     title,
		Status:    StatusNotStarted,
		Estimate:  estimate,
		CreatedAt: time.Now().UTC(),
		Approval:  Approval{Status: ApprovalPending},
		Stages:    make([]*Stage, 0),
	}
}

// NewFromStructure builds a workstream skeleton from an advisory structure.
// Threads beyond MaxThreadsPerBatch spill into additional batches.
func NewFromStructure(id, title string, estimate Estimate, st Structure) *Workstream {
	w := New(id, title, estimate)
	for s := 1; s <= st.Stages; s++ {
		stage := w.AddStage(fmt.Sprintf("Stage %d", s))
		var batch *Batch
		for th := 0; th < st.Supertasks; th++ {
			if batch == nil || len(batch.Threads) == MaxThreadsPerBatch {
				batch, _ = w.AddBatch(stage.Index, fmt.Sprintf("Batch %d", len(stage.Batches)+1))
			}
			thread, err := w.AddThread(stage.Index, batch.Index, fmt.Sprintf("Thread %d", len(batch.Threads)+1))
			if err != nil {
				continue
			}
			for t := 0; t < st.Subtasks; t++ {
				_, _ = w.AddTask(stage.Index, batch.Index, thread.Index, PlaceholderTask)
			}
		}
	}
	w.Derive()
	return w
}

// AddStage appends a stage with the next free index.
func (w *Workstream) AddStage(title string) *Stage {
	next := 1
	for _, s := range w.Stages {
		if s.Index >= next {
			next = s.Index + 1
		}
	}
	stage := &Stage{Index: next, Title: title, Status: StatusNotStarted, Batches: make([]*Batch, 0)}
	w.Stages = append(w.Stages, stage)
	w.Derive()
	return stage
}

// AddBatch appends a batch to the given stage.
func (w *Workstream) AddBatch(stageIdx int, title string) (*Batch, error) {
	stage := w.FindStage(stageIdx)
	if stage == nil {
		return nil, &NotFoundError{Kind: "stage", ID: strconv.Itoa(stageIdx)}
	}
	next := 1
	for _, b := range stage.Batches {
		if b.Index >= next {
			next = b.Index + 1
		}
	}
	batch := &Batch{Index: next, Title: title, Status: StatusNotStarted, Threads: make([]*Thread, 0)}
	stage.Batches = append(stage.Batches, batch)
	w.Derive()
	return batch, nil
}

// AddThread appends a thread to the given batch. It fails with
// ErrThreadLimitExceeded once the batch holds MaxThreadsPerBatch threads.
func (w *Workstream) AddThread(stageIdx, batchIdx int, title string) (*Thread, error) {
	batch := w.FindBatch(stageIdx, batchIdx)
	if batch == nil {
		return nil, &NotFoundError{Kind: "batch", ID: fmt.Sprintf("%02d.%02d", stageIdx, batchIdx)}
	}
	if len(batch.Threads) >= MaxThreadsPerBatch {
		return nil, fmt.Errorf("%w: batch %02d.%02d already has %d threads",
			ErrThreadLimitExceeded, stageIdx, batchIdx, len(batch.Threads))
	}
	next := 1
	for _, th := range batch.Threads {
		if th.Index >= next {
			next = th.Index + 1
		}
	}
	thread := &Thread{Index: next, Title: title, Status: StatusNotStarted, Tasks: make([]*Task, 0)}
	batch.Threads = append(batch.Threads, thread)
	w.Derive()
	return thread, nil
}

// AddTask appends an unchecked task to the given thread and allocates the
// next task identifier for that thread.
func (w *Workstream) AddTask(stageIdx, batchIdx, threadIdx int, description string) (*Task, error) {
	thread := w.FindThread(stageIdx, batchIdx, threadIdx)
	if thread == nil {
		return nil, &NotFoundError{Kind: "thread", ID: FormatThreadRef(stageIdx, batchIdx, threadIdx)}
	}
	next := len(thread.Tasks) + 1
	for _, t := range thread.Tasks {
		if _, _, _, n, ok := ParseTaskID(t.ID); ok && n >= next {
			next = n + 1
		}
	}
	task := &Task{
		ID:          FormatTaskID(stageIdx, batchIdx, threadIdx, next),
		Description: description,
		Status:      StatusNotStarted,
	}
	thread.Tasks = append(thread.Tasks, task)
	w.Derive()
	return task, nil
}

// FindStage returns the stage with the given index, or nil.
func (w *Workstream) FindStage(idx int) *Stage {
	for _, s := range w.Stages {
		if s.Index == idx {
			return s
		}
	}
	return nil
}

// FindBatch returns the batch at the given position, or nil.
func (w *Workstream) FindBatch(stageIdx, batchIdx int) *Batch {
	stage := w.FindStage(stageIdx)
	if stage == nil {
		return nil
	}
	for _, b := range stage.Batches {
		if b.Index == batchIdx {
			return b
		}
	}
	return nil
}

// FindThread returns the thread at the given position, or nil.
func (w *Workstream) FindThread(stageIdx, batchIdx, threadIdx int) *Thread {
	batch := w.FindBatch(stageIdx, batchIdx)
	if batch == nil {
		return nil
	}
	for _, th := range batch.Threads {
		if th.Index == threadIdx {
			return th
		}
	}
	return nil
}

// FindTask returns the first task with the given identifier and its location.
func (w *Workstream) FindTask(id string) (*Task, Location, bool) {
	for _, ref := range w.Tasks() {
		if ref.Task.ID == id {
			return ref.Task, ref.Location, true
		}
	}
	return nil, Location{}, false
}

// Tasks lists every task in document order with its location.
func (w *Workstream) Tasks() []TaskRef {
	var refs []TaskRef
	for _, s := range w.Stages {
		for _, b := range s.Batches {
			for _, th := range b.Threads {
				for _, t := range th.Tasks {
					refs = append(refs, TaskRef{
						Task: t,
						Location: Location{
							Stage:  s.Index,
							Batch:  b.Index,
							Thread: th.Index,
							TaskID: t.ID,
							Line:   t.Line,
						},
					})
				}
			}
		}
	}
	return refs
}
