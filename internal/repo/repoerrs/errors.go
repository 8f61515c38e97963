package repoerrs

import "errors"

var (
	// ErrNotFound means the row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a guarded status update observed a different stored
	// status than the caller expected. Safe to retry after re-reading.
	ErrConflict = errors.New("status conflict")
)
