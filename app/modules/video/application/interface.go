package videoservice

import (
	"context"

	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
	"github.com/Black-And-White-Club/reelboard/pkg/results"
)

// VideoResult carries the video after a mutation, or the business failure
// that prevented it.
type VideoResult = results.OperationResult[videodomain.Video, error]

// ViewResult carries the authoritative view count after an increment.
type ViewResult = results.OperationResult[ViewCount, error]

// ProfileResult carries the stored profile after an update.
type ProfileResult = results.OperationResult[videodomain.Profile, error]

// ViewCount is the response of RecordView.
type ViewCount struct {
	VideoID string `json:"video_id"`
	Views   int    `json:"views"`
}

// Service is the video module's application contract.
type Service interface {
	ListFeed(ctx context.Context, limit int) ([]videodomain.Video, error)
	GetVideo(ctx context.Context, videoID string) (*videodomain.Video, error)

	RegisterVideo(ctx context.Context, actor videodomain.Actor, upload videodomain.Upload) (VideoResult, error)
	LikeVideo(ctx context.Context, actor videodomain.Actor, videoID string) (VideoResult, error)
	UnlikeVideo(ctx context.Context, actor videodomain.Actor, videoID string) (VideoResult, error)
	RecordView(ctx context.Context, videoID string) (ViewResult, error)
	UpdateProfile(ctx context.Context, actor videodomain.Actor, profile videodomain.Profile) (ProfileResult, error)
}
