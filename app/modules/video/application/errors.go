package videoservice

import "errors"

var (
	// ErrVideoNotFound is returned when the target video does not exist.
	ErrVideoNotFound = errors.New("video not found")

	// ErrMissingActor is returned when a mutating call has no user id.
	ErrMissingActor = errors.New("authenticated user required")
)
