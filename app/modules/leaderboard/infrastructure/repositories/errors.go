package leaderboarddb

import "errors"

var (
	// ErrNoCurrentVersion is returned when nothing has been published yet.
	ErrNoCurrentVersion = errors.New("no leaderboard has been published")
)
