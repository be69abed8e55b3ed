package videodb

import "errors"

// Sentinel errors for the video repository layer. The service decides how to
// surface them.
var (
	// ErrNotFound indicates the requested video does not exist.
	ErrNotFound = errors.New("video record not found")

	// ErrNoRowsAffected indicates an UPDATE/DELETE matched zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
