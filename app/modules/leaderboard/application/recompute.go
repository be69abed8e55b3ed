package leaderboardservice

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain/events"
	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/reelboard/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
)

// RecomputeLeaderboard reads every video, scores and ranks one entry per
// user, and publishes the result as a new current version. The configured
// job timeout bounds the whole run. A read failure aborts before anything is
// written; an empty corpus publishes an empty version.
func (s *LeaderboardService) RecomputeLeaderboard(ctx context.Context, trigger string) (*PublishResult, error) {
	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}

	res, err := withTelemetry(s, ctx, "RecomputeLeaderboard", func(ctx context.Context) (*PublishResult, error) {
		return s.recompute(ctx, trigger)
	})
	if err != nil {
		s.emit(ctx, leaderboardevents.PublishFailedV1, leaderboardevents.PublishFailedPayloadV1{Reason: err.Error()})
		return nil, err
	}

	s.emit(ctx, leaderboardevents.PublishedV1, leaderboardevents.PublishedPayloadV1{
		VersionID:   res.VersionID,
		Updated:     res.Updated,
		Top:         res.Top,
		PublishedAt: res.PublishedAt,
	})
	return res, nil
}

func (s *LeaderboardService) recompute(ctx context.Context, trigger string) (*PublishResult, error) {
	rows, err := s.repo.ReadCorpus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusRead, err)
	}

	videos := make([]leaderboarddomain.VideoStats, len(rows))
	for i, r := range rows {
		videos[i] = leaderboarddomain.VideoStats{
			VideoID:   r.VideoID,
			Title:     r.Title,
			UserID:    r.UserID,
			Username:  r.Username,
			AvatarURL: r.AvatarURL,
			Likes:     r.Likes,
			Views:     r.Views,
		}
	}

	computed := leaderboarddomain.Compute(videos, leaderboarddomain.ReducerOptions{
		ViewsTieBreak: s.cfg.ReducerViewsTieBreak,
	})

	snapshot := leaderboarddb.Snapshot{
		MaxLikes:          computed.Maxima.Likes,
		MaxViews:          computed.Maxima.Views,
		CorpusFingerprint: leaderboarddomain.CorpusFingerprint(videos),
		Entries:           make([]leaderboarddb.LeaderboardEntry, len(computed.Entries)),
	}
	for i, e := range computed.Entries {
		snapshot.Entries[i] = leaderboarddb.LeaderboardEntry{
			VideoID: e.VideoID,
			UserID:  e.UserID,
			Score:   e.Score,
			Rank:    e.Rank,
			Likes:   e.Likes,
			Views:   e.Views,
		}
	}

	version, err := s.repo.PublishSnapshot(ctx, nil, snapshot, s.cfg.RetainVersions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublish, err)
	}

	s.logger.InfoContext(ctx, "Leaderboard published",
		attr.String("trigger", trigger),
		attr.String("version_id", version.ID.String()),
		attr.Int("videos", len(videos)),
		attr.Int("updated", len(computed.Entries)),
		attr.ExtractCorrelationID(ctx),
	)

	return &PublishResult{
		VersionID:   version.ID.String(),
		Updated:     len(computed.Entries),
		Top:         leaderboarddomain.Rows(leaderboarddomain.Top(computed.Entries, s.cfg.TopN)),
		PublishedAt: version.CreatedAt,
	}, nil
}

// RequestRecompute publishes a recompute request for the event consumer.
func (s *LeaderboardService) RequestRecompute(ctx context.Context, requestedBy, reason string) error {
	msg, err := handlerwrapper.NewMessage(ctx, leaderboardevents.RecomputeRequestedPayloadV1{
		RequestedBy: requestedBy,
		Reason:      reason,
	})
	if err != nil {
		return fmt.Errorf("leaderboardservice.RequestRecompute: %w", err)
	}
	if err := s.publisher.Publish(leaderboardevents.RecomputeRequestedV1, msg); err != nil {
		return fmt.Errorf("leaderboardservice.RequestRecompute: %w", err)
	}
	return nil
}

// emit publishes an outcome event. The run's outcome does not depend on it,
// so failures are only logged.
func (s *LeaderboardService) emit(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	msg, err := handlerwrapper.NewMessage(ctx, payload)
	if err == nil {
		err = s.publisher.Publish(topic, msg)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish leaderboard event",
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}
