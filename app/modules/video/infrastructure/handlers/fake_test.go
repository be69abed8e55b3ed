package videohandlers

import (
	"context"
	"net/http"

	authdomain "github.com/Black-And-White-Club/reelboard/app/modules/auth/domain"
	videoservice "github.com/Black-And-White-Club/reelboard/app/modules/video/application"
	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
)

type FakeVideoService struct {
	trace []string

	ListFeedFunc      func(ctx context.Context, limit int) ([]videodomain.Video, error)
	GetVideoFunc      func(ctx context.Context, videoID string) (*videodomain.Video, error)
	RegisterVideoFunc func(ctx context.Context, actor videodomain.Actor, upload videodomain.Upload) (videoservice.VideoResult, error)
	LikeVideoFunc     func(ctx context.Context, actor videodomain.Actor, videoID string) (videoservice.VideoResult, error)
	UnlikeVideoFunc   func(ctx context.Context, actor videodomain.Actor, videoID string) (videoservice.VideoResult, error)
	RecordViewFunc    func(ctx context.Context, videoID string) (videoservice.ViewResult, error)
	UpdateProfileFunc func(ctx context.Context, actor videodomain.Actor, profile videodomain.Profile) (videoservice.ProfileResult, error)
}

func (f *FakeVideoService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeVideoService) Trace() []string { return f.trace }

func (f *FakeVideoService) ListFeed(ctx context.Context, limit int) ([]videodomain.Video, error) {
	f.record("ListFeed")
	if f.ListFeedFunc != nil {
		return f.ListFeedFunc(ctx, limit)
	}
	return []videodomain.Video{}, nil
}

func (f *FakeVideoService) GetVideo(ctx context.Context, videoID string) (*videodomain.Video, error) {
	f.record("GetVideo")
	if f.GetVideoFunc != nil {
		return f.GetVideoFunc(ctx, videoID)
	}
	return nil, videoservice.ErrVideoNotFound
}

func (f *FakeVideoService) RegisterVideo(ctx context.Context, actor videodomain.Actor, upload videodomain.Upload) (videoservice.VideoResult, error) {
	f.record("RegisterVideo")
	if f.RegisterVideoFunc != nil {
		return f.RegisterVideoFunc(ctx, actor, upload)
	}
	return videoservice.VideoResult{}, nil
}

func (f *FakeVideoService) LikeVideo(ctx context.Context, actor videodomain.Actor, videoID string) (videoservice.VideoResult, error) {
	f.record("LikeVideo")
	if f.LikeVideoFunc != nil {
		return f.LikeVideoFunc(ctx, actor, videoID)
	}
	return videoservice.VideoResult{}, nil
}

func (f *FakeVideoService) UnlikeVideo(ctx context.Context, actor videodomain.Actor, videoID string) (videoservice.VideoResult, error) {
	f.record("UnlikeVideo")
	if f.UnlikeVideoFunc != nil {
		return f.UnlikeVideoFunc(ctx, actor, videoID)
	}
	return videoservice.VideoResult{}, nil
}

func (f *FakeVideoService) RecordView(ctx context.Context, videoID string) (videoservice.ViewResult, error) {
	f.record("RecordView")
	if f.RecordViewFunc != nil {
		return f.RecordViewFunc(ctx, videoID)
	}
	return videoservice.ViewResult{}, nil
}

func (f *FakeVideoService) UpdateProfile(ctx context.Context, actor videodomain.Actor, profile videodomain.Profile) (videoservice.ProfileResult, error) {
	f.record("UpdateProfile")
	if f.UpdateProfileFunc != nil {
		return f.UpdateProfileFunc(ctx, actor, profile)
	}
	return videoservice.ProfileResult{}, nil
}

var _ videoservice.Service = (*FakeVideoService)(nil)

// fakeAuth trusts an X-Test-User header in place of a bearer token.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.Header.Get("X-Test-User")
		if user == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := authdomain.WithClaims(r.Context(), &authdomain.Claims{UserID: user, Username: "name-" + user})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// fakeOptionalAuth attaches claims from X-Test-User when present.
func fakeOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := r.Header.Get("X-Test-User"); user != "" {
			r = r.WithContext(authdomain.WithClaims(r.Context(), &authdomain.Claims{UserID: user, Username: "name-" + user}))
		}
		next.ServeHTTP(w, r)
	})
}
