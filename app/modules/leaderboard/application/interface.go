package leaderboardservice

import (
	"context"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain"
)

// Service is the leaderboard module's application contract.
type Service interface {
	// RecomputeLeaderboard rebuilds and publishes the leaderboard from the
	// full video corpus. trigger names the caller for logs.
	RecomputeLeaderboard(ctx context.Context, trigger string) (*PublishResult, error)

	// RequestRecompute asks a consumer to run RecomputeLeaderboard.
	RequestRecompute(ctx context.Context, requestedBy, reason string) error

	GetLeaderboard(ctx context.Context, limit int) (*LeaderboardView, error)
	RenderChart(ctx context.Context, limit int) ([]byte, error)
	ExportWorkbook(ctx context.Context) ([]byte, error)
}

// PublishResult reports a completed recompute.
type PublishResult struct {
	VersionID   string                             `json:"version_id"`
	Updated     int                                `json:"updated"`
	Top         []leaderboarddomain.LeaderboardRow `json:"top"`
	PublishedAt time.Time                          `json:"published_at"`
}

// LeaderboardView is the current leaderboard as served to readers.
type LeaderboardView struct {
	VersionID   string                             `json:"version_id,omitempty"`
	PublishedAt *time.Time                         `json:"published_at,omitempty"`
	Entries     []leaderboarddomain.LeaderboardRow `json:"entries"`
}
