package domain

import "errors"

var (
	// ErrInvalidCoordinates signals a malformed coordinate string from the caller.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable signals that an index lookup failed or timed out.
	ErrStoreUnavailable = errors.New("store unavailable")
)
