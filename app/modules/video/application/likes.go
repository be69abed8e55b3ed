package videoservice

import (
	"context"
	"errors"

	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/Black-And-White-Club/reelboard/pkg/results"
	"github.com/uptrace/bun"
)

// LikeVideo adds the actor to the video's liked set. Liking twice leaves the
// counter unchanged.
func (s *VideoService) LikeVideo(ctx context.Context, actor videodomain.Actor, videoID string) (VideoResult, error) {
	return withTelemetry(s, ctx, "LikeVideo", videoID, func(ctx context.Context) (VideoResult, error) {
		return s.toggleLike(ctx, actor, videoID, s.repo.LikeVideo)
	})
}

// UnlikeVideo removes the actor from the video's liked set. Unliking a video
// the actor never liked leaves the counter unchanged.
func (s *VideoService) UnlikeVideo(ctx context.Context, actor videodomain.Actor, videoID string) (VideoResult, error) {
	return withTelemetry(s, ctx, "UnlikeVideo", videoID, func(ctx context.Context) (VideoResult, error) {
		return s.toggleLike(ctx, actor, videoID, s.repo.UnlikeVideo)
	})
}

type likeMutation func(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error)

func (s *VideoService) toggleLike(ctx context.Context, actor videodomain.Actor, videoID string, mutate likeMutation) (VideoResult, error) {
	if actor.UserID == "" {
		return results.FailureResult[videodomain.Video, error](ErrMissingActor), nil
	}

	return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (VideoResult, error) {
		if err := s.repo.EnsureUser(ctx, db, &videodb.User{ID: actor.UserID, Username: actor.Username}); err != nil {
			return VideoResult{}, err
		}

		changed, err := mutate(ctx, db, videoID, actor.UserID)
		if err != nil {
			if errors.Is(err, videodb.ErrNotFound) {
				return results.FailureResult[videodomain.Video, error](ErrVideoNotFound), nil
			}
			return VideoResult{}, err
		}
		if !changed {
			s.logger.DebugContext(ctx, "like state already matched request",
				attr.VideoID(videoID),
				attr.UserID(actor.UserID),
			)
		}

		row, err := s.repo.GetVideo(ctx, db, videoID)
		if err != nil {
			return VideoResult{}, err
		}
		return results.SuccessResult[videodomain.Video, error](toDomain(row)), nil
	})
}

// RecordView increments the view counter. There is no per-user uniqueness.
func (s *VideoService) RecordView(ctx context.Context, videoID string) (ViewResult, error) {
	return withTelemetry(s, ctx, "RecordView", videoID, func(ctx context.Context) (ViewResult, error) {
		views, err := s.repo.IncrementViews(ctx, nil, videoID)
		if err != nil {
			if errors.Is(err, videodb.ErrNotFound) {
				return results.FailureResult[ViewCount, error](ErrVideoNotFound), nil
			}
			return ViewResult{}, err
		}
		return results.SuccessResult[ViewCount, error](ViewCount{VideoID: videoID, Views: views}), nil
	})
}
