package reelclient

import "errors"

var (
	// ErrNotAuthenticated is returned before any remote call when the session has no user.
	ErrNotAuthenticated = errors.New("reelclient: no authenticated user")
	// ErrRemoteFailed wraps every failed like, unlike or view call.
	ErrRemoteFailed = errors.New("reelclient: remote call failed")
	// ErrUnknownVideo is returned when the video is not in the cache.
	ErrUnknownVideo = errors.New("reelclient: video not in cache")
)
