package videoservice

import (
	"context"

	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeVideoRepo is a hand-written stand-in for videodb.Repository. Unset Func
// fields fall back to simple defaults.
type FakeVideoRepo struct {
	trace []string

	ListFeedFunc       func(ctx context.Context, db bun.IDB, limit int) ([]*videodb.Video, error)
	GetVideoFunc       func(ctx context.Context, db bun.IDB, videoID string) (*videodb.Video, error)
	CreateVideoFunc    func(ctx context.Context, db bun.IDB, video *videodb.Video) error
	LikeVideoFunc      func(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error)
	UnlikeVideoFunc    func(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error)
	IncrementViewsFunc func(ctx context.Context, db bun.IDB, videoID string) (int, error)
	UpsertUserFunc     func(ctx context.Context, db bun.IDB, user *videodb.User) error
	EnsureUserFunc     func(ctx context.Context, db bun.IDB, user *videodb.User) error
	GetUserFunc        func(ctx context.Context, db bun.IDB, userID string) (*videodb.User, error)
}

func NewFakeVideoRepo() *FakeVideoRepo {
	return &FakeVideoRepo{trace: []string{}}
}

func (f *FakeVideoRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeVideoRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeVideoRepo) ListFeed(ctx context.Context, db bun.IDB, limit int) ([]*videodb.Video, error) {
	f.record("ListFeed")
	if f.ListFeedFunc != nil {
		return f.ListFeedFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakeVideoRepo) GetVideo(ctx context.Context, db bun.IDB, videoID string) (*videodb.Video, error) {
	f.record("GetVideo")
	if f.GetVideoFunc != nil {
		return f.GetVideoFunc(ctx, db, videoID)
	}
	return nil, videodb.ErrNotFound
}

func (f *FakeVideoRepo) CreateVideo(ctx context.Context, db bun.IDB, video *videodb.Video) error {
	f.record("CreateVideo")
	if f.CreateVideoFunc != nil {
		return f.CreateVideoFunc(ctx, db, video)
	}
	return nil
}

func (f *FakeVideoRepo) LikeVideo(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error) {
	f.record("LikeVideo")
	if f.LikeVideoFunc != nil {
		return f.LikeVideoFunc(ctx, db, videoID, userID)
	}
	return true, nil
}

func (f *FakeVideoRepo) UnlikeVideo(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error) {
	f.record("UnlikeVideo")
	if f.UnlikeVideoFunc != nil {
		return f.UnlikeVideoFunc(ctx, db, videoID, userID)
	}
	return true, nil
}

func (f *FakeVideoRepo) IncrementViews(ctx context.Context, db bun.IDB, videoID string) (int, error) {
	f.record("IncrementViews")
	if f.IncrementViewsFunc != nil {
		return f.IncrementViewsFunc(ctx, db, videoID)
	}
	return 1, nil
}

func (f *FakeVideoRepo) UpsertUser(ctx context.Context, db bun.IDB, user *videodb.User) error {
	f.record("UpsertUser")
	if f.UpsertUserFunc != nil {
		return f.UpsertUserFunc(ctx, db, user)
	}
	return nil
}

func (f *FakeVideoRepo) EnsureUser(ctx context.Context, db bun.IDB, user *videodb.User) error {
	f.record("EnsureUser")
	if f.EnsureUserFunc != nil {
		return f.EnsureUserFunc(ctx, db, user)
	}
	return nil
}

func (f *FakeVideoRepo) GetUser(ctx context.Context, db bun.IDB, userID string) (*videodb.User, error) {
	f.record("GetUser")
	if f.GetUserFunc != nil {
		return f.GetUserFunc(ctx, db, userID)
	}
	return nil, videodb.ErrNotFound
}

var _ videodb.Repository = (*FakeVideoRepo)(nil)
