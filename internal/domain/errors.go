package domain

import "errors"

// Common domain errors
var (
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned by conditional updates when the record was not
	// in the expected prior state (stale selection, terminal transition).
	ErrConflict = errors.New("record not in expected state")
)
