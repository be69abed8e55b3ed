package videodb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for videos, likes and profiles.
//
// Error semantics:
//   - ErrNotFound: the video does not exist
//   - other errors: infrastructure failures
type Repository interface {
	ListFeed(ctx context.Context, db bun.IDB, limit int) ([]*Video, error)
	GetVideo(ctx context.Context, db bun.IDB, videoID string) (*Video, error)
	CreateVideo(ctx context.Context, db bun.IDB, video *Video) error

	// LikeVideo adds userID to the liked set and reports whether the set changed.
	LikeVideo(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error)
	// UnlikeVideo removes userID from the liked set and reports whether the set changed.
	UnlikeVideo(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error)
	IncrementViews(ctx context.Context, db bun.IDB, videoID string) (int, error)

	UpsertUser(ctx context.Context, db bun.IDB, user *User) error
	EnsureUser(ctx context.Context, db bun.IDB, user *User) error
	GetUser(ctx context.Context, db bun.IDB, userID string) (*User, error)
}
