package videoservice

import (
	"context"
	"errors"
	"fmt"

	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
)

// ListFeed returns the newest videos first. limit <= 0 uses the configured
// page size; larger requests are capped to it.
func (s *VideoService) ListFeed(ctx context.Context, limit int) ([]videodomain.Video, error) {
	if limit <= 0 || (s.feedPageSize > 0 && limit > s.feedPageSize) {
		limit = s.feedPageSize
	}

	rows, err := s.repo.ListFeed(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("videoservice.ListFeed: %w", err)
	}

	feed := make([]videodomain.Video, 0, len(rows))
	for _, row := range rows {
		feed = append(feed, toDomain(row))
	}
	return feed, nil
}

func (s *VideoService) GetVideo(ctx context.Context, videoID string) (*videodomain.Video, error) {
	row, err := s.repo.GetVideo(ctx, nil, videoID)
	if err != nil {
		if errors.Is(err, videodb.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("videoservice.GetVideo: %w", err)
	}
	v := toDomain(row)
	return &v, nil
}
