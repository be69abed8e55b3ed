package leaderboardqueue

import "time"

// QueueName is the dedicated River queue for leaderboard jobs.
const QueueName = "leaderboard"

// RecomputeJob runs one leaderboard publish.
type RecomputeJob struct {
	Trigger string `json:"trigger"`
}

// Kind returns the job type identifier for River
func (RecomputeJob) Kind() string { return "leaderboard_recompute" }

// JobInfo represents information about a pending job (for debugging/monitoring)
type JobInfo struct {
	ID          int64      `json:"id"`
	Kind        string     `json:"kind"`
	Trigger     string     `json:"trigger"`
	State       string     `json:"state"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Attempt     int        `json:"attempt"`
	MaxAttempts int        `json:"max_attempts"`
}
