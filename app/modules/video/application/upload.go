package videoservice

import (
	"context"
	"strings"

	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
	"github.com/Black-And-White-Club/reelboard/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterVideo validates an uploaded file's metadata and stores the video
// row. Validation failures are returned as a failure result before anything
// is written.
func (s *VideoService) RegisterVideo(ctx context.Context, actor videodomain.Actor, upload videodomain.Upload) (VideoResult, error) {
	videoID := uuid.NewString()
	return withTelemetry(s, ctx, "RegisterVideo", videoID, func(ctx context.Context) (VideoResult, error) {
		if actor.UserID == "" {
			return results.FailureResult[videodomain.Video, error](ErrMissingActor), nil
		}
		if err := videodomain.ValidateUpload(upload, s.maxUploadBytes); err != nil {
			return results.FailureResult[videodomain.Video, error](err), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (VideoResult, error) {
			if err := s.repo.EnsureUser(ctx, db, &videodb.User{ID: actor.UserID, Username: actor.Username}); err != nil {
				return VideoResult{}, err
			}

			row := &videodb.Video{
				ID:           videoID,
				UserID:       actor.UserID,
				Title:        strings.TrimSpace(upload.Title),
				Description:  strings.TrimSpace(upload.Description),
				VideoURL:     upload.VideoURL,
				ThumbnailURL: upload.ThumbnailURL,
			}
			if err := s.repo.CreateVideo(ctx, db, row); err != nil {
				return VideoResult{}, err
			}

			stored, err := s.repo.GetVideo(ctx, db, videoID)
			if err != nil {
				return VideoResult{}, err
			}
			return results.SuccessResult[videodomain.Video, error](toDomain(stored)), nil
		})
	})
}

// UpdateProfile sets the actor's username and avatar.
func (s *VideoService) UpdateProfile(ctx context.Context, actor videodomain.Actor, profile videodomain.Profile) (ProfileResult, error) {
	return withTelemetry(s, ctx, "UpdateProfile", "", func(ctx context.Context) (ProfileResult, error) {
		if actor.UserID == "" {
			return results.FailureResult[videodomain.Profile, error](ErrMissingActor), nil
		}
		if err := videodomain.ValidateProfile(profile); err != nil {
			return results.FailureResult[videodomain.Profile, error](err), nil
		}

		user := &videodb.User{
			ID:        actor.UserID,
			Username:  strings.TrimSpace(profile.Username),
			AvatarURL: strings.TrimSpace(profile.AvatarURL),
		}
		if err := s.repo.UpsertUser(ctx, nil, user); err != nil {
			return ProfileResult{}, err
		}
		return results.SuccessResult[videodomain.Profile, error](videodomain.Profile{
			Username:  user.Username,
			AvatarURL: user.AvatarURL,
		}), nil
	})
}
