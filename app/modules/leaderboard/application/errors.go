package leaderboardservice

import "errors"

var (
	// ErrCorpusRead is returned when the video corpus cannot be read. Nothing is written.
	ErrCorpusRead = errors.New("failed to read video corpus")

	// ErrPublish is returned when the new version could not be committed.
	ErrPublish = errors.New("failed to publish leaderboard")
)
