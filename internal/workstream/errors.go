package workstream

import (
	"errors"
	"fmt"
)

// Sentinel errors for the workstream package. Structural problems in a plan
// are reported as Diagnostics; these are for calls the caller got wrong.
var (
	// ErrThreadLimitExceeded is returned when a batch already holds MaxThreadsPerBatch threads.
	ErrThreadLimitExceeded = errors.New("thread limit per batch exceeded")

	// ErrInvalidStatus is returned for status values outside ValidStatuses.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidEstimate is returned for estimates outside DefaultSessionEstimates.
	ErrInvalidEstimate = errors.New("invalid estimate")
)

// NotFoundError reports a lookup by identifier that matched nothing.
type NotFoundError struct {
	Kind string // "task", "stage", "batch", "thread", "workstream"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// StatusError reports an unparseable status string.
type StatusError struct {
	Value string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid status %q (must be not_started, in_progress or complete)", e.Value)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidStatus).
func (e *StatusError) Unwrap() error {
	return ErrInvalidStatus
}
