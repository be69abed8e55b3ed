package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
)

// GetLeaderboard returns the first limit rows of the current version.
// limit <= 0 uses the configured top N. Before the first publish the view
// is empty.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) (*LeaderboardView, error) {
	if limit <= 0 {
		limit = s.cfg.TopN
	}
	return s.currentView(ctx, limit)
}

func (s *LeaderboardService) currentView(ctx context.Context, limit int) (*LeaderboardView, error) {
	rows, err := s.repo.GetCurrentEntries(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboardservice.GetLeaderboard: %w", err)
	}

	view := &LeaderboardView{Entries: make([]leaderboarddomain.LeaderboardRow, 0, len(rows))}
	if len(rows) > 0 {
		view.VersionID = rows[0].VersionID.String()
		publishedAt := rows[0].CreatedAt
		view.PublishedAt = &publishedAt
	} else {
		version, err := s.repo.GetCurrentVersion(ctx, nil)
		switch {
		case errors.Is(err, leaderboarddb.ErrNoCurrentVersion):
		case err != nil:
			return nil, fmt.Errorf("leaderboardservice.GetLeaderboard: %w", err)
		default:
			view.VersionID = version.ID.String()
			view.PublishedAt = &version.CreatedAt
		}
	}

	for _, r := range rows {
		username := r.Username
		if username == "" {
			username = leaderboarddomain.AnonymousUsername
		}
		view.Entries = append(view.Entries, leaderboarddomain.LeaderboardRow{
			Rank:       r.Rank,
			UserID:     r.UserID,
			Username:   username,
			AvatarURL:  r.AvatarURL,
			VideoID:    r.VideoID,
			VideoTitle: r.VideoTitle,
			Score:      r.Score,
			Likes:      r.Likes,
			Views:      r.Views,
		})
	}
	return view, nil
}
