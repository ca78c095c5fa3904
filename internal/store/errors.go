package store

import "errors"

// Sentinel errors for the store package. Callers match with errors.Is.
var (
	// ErrNotInitialized is returned when the work directory has no index.
	ErrNotInitialized = errors.New("work directory not initialized (run 'ws create' first)")

	// ErrExists is returned when creating a workstream whose ID is taken.
	ErrExists = errors.New("workstream already exists")

	// ErrLocked is returned when another process holds the work directory lock.
	ErrLocked = errors.New("work directory is locked by another ws process")

	// ErrNoCurrent is returned when no workstream is selected.
	ErrNoCurrent = errors.New("no current workstream (use 'ws switch <id>')")

	// ErrInvalidID is returned for IDs that are not "<seq>-<slug>". Such IDs
	// cannot be mapped to a directory under the work dir.
	ErrInvalidID = errors.New("invalid workstream ID")

	// ErrAmbiguous is returned when a query matches several workstreams equally well.
	ErrAmbiguous = errors.New("query matches more than one workstream")
)
