package neurodex

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is() to check.
var (
	ErrInvalidCoordinates = errors.New("neurodex: invalid coordinates")
	ErrNotFound           = errors.New("neurodex: not found")
	ErrUnauthorized       = errors.New("neurodex: unauthorized")
	ErrStoreUnavailable   = errors.New("neurodex: store unavailable")
)

// APIError is a non-2xx response from the service. It wraps the matching
// sentinel error, so errors.Is(err, neurodex.ErrNotFound) works on it.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("neurodex: %s (http %d): %s", e.Code, e.StatusCode, e.Message)
}

// Is maps API error codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrInvalidCoordinates:
		return e.Code == "invalid_coordinates"
	case ErrNotFound:
		return e.Code == "not_found"
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrStoreUnavailable:
		return e.Code == "store_unavailable"
	}
	return false
}
