package leaderboardevents

import (
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain"
)

// LeaderboardStreamName is the JetStream stream carrying every leaderboard.* subject.
const LeaderboardStreamName = "leaderboard"

const (
	// RecomputeRequestedV1 asks the service to rebuild the leaderboard now.
	RecomputeRequestedV1 = "leaderboard.recompute.requested.v1"
	// PublishedV1 announces a newly published leaderboard version.
	PublishedV1 = "leaderboard.published.v1"
	// PublishFailedV1 reports a recompute that wrote nothing.
	PublishFailedV1 = "leaderboard.publish.failed.v1"
)

// RecomputeRequestedPayloadV1 is the payload of RecomputeRequestedV1.
type RecomputeRequestedPayloadV1 struct {
	RequestedBy string `json:"requested_by"`
	Reason      string `json:"reason"`
}

// PublishedPayloadV1 is the payload of PublishedV1.
type PublishedPayloadV1 struct {
	VersionID   string                             `json:"version_id"`
	Updated     int                                `json:"updated"`
	Top         []leaderboarddomain.LeaderboardRow `json:"top"`
	PublishedAt time.Time                          `json:"published_at"`
}

// PublishFailedPayloadV1 is the payload of PublishFailedV1.
type PublishFailedPayloadV1 struct {
	Reason string `json:"reason"`
}
