package workstream

// ApplyUpdate sets the status of the task with the given identifier and
// re-derives the status of every ancestor. Applying the same status twice
// leaves the tree unchanged.
func (w *Workstream) ApplyUpdate(taskID string, status Status) (*Task, error) {
	if !ValidStatuses[status] {
		return nil, &StatusError{Value: string(status)}
	}
	task, _, ok := w.FindTask(taskID)
	if !ok {
		return nil, &NotFoundError{Kind: "task", ID: taskID}
	}
	task.SetStatus(status)
	w.Derive()
	return task, nil
}

// ApplyThreadUpdate sets every task in a thread to status.
func (w *Workstream) ApplyThreadUpdate(stageIdx, batchIdx, threadIdx int, status Status) (*Thread, error) {
	if !ValidStatuses[status] {
		return nil, &StatusError{Value: string(status)}
	}
	thread := w.FindThread(stageIdx, batchIdx, threadIdx)
	if thread == nil {
		return nil, &NotFoundError{Kind: "thread", ID: FormatThreadRef(stageIdx, batchIdx, threadIdx)}
	}
	for _, t := range thread.Tasks {
		t.SetStatus(status)
	}
	w.Derive()
	return thread, nil
}

// Unchecked returns every task that is not complete, in document order.
func (w *Workstream) Unchecked() []TaskRef {
	var out []TaskRef
	for _, ref := range w.Tasks() {
		if !ref.Task.Checked {
			out = append(out, ref)
		}
	}
	return out
}
