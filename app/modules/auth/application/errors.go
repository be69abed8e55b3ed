package authservice

import "errors"

var (
	// ErrMissingUserID is returned when a token is requested without a subject.
	ErrMissingUserID = errors.New("user id is required")

	// ErrGenerateToken is returned when token generation fails.
	ErrGenerateToken = errors.New("failed to generate token")
)
