package reelclient

import (
	"context"
	"slices"
	"sync"
)

// FakeRemote is an in-memory server. The Func fields, when set, run before
// the default behaviour and can fail the call.
type FakeRemote struct {
	mu     sync.Mutex
	videos map[string]Video
	order  []string
	trace  []string

	ListFeedFunc   func(ctx context.Context) error
	LikeFunc       func(ctx context.Context, videoID string) error
	UnlikeFunc     func(ctx context.Context, videoID string) error
	RecordViewFunc func(ctx context.Context, videoID string) error

	userID string
}

func NewFakeRemote(userID string, videos ...Video) *FakeRemote {
	f := &FakeRemote{videos: map[string]Video{}, userID: userID}
	for _, v := range videos {
		f.videos[v.ID] = v.clone()
		f.order = append(f.order, v.ID)
	}
	return f
}

func (f *FakeRemote) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeRemote) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.trace)
}

func (f *FakeRemote) Count(step string) int {
	n := 0
	for _, s := range f.Trace() {
		if s == step {
			n++
		}
	}
	return n
}

func (f *FakeRemote) Server(videoID string) Video {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.videos[videoID].clone()
}

func (f *FakeRemote) ListFeed(ctx context.Context) ([]Video, error) {
	f.record("ListFeed")
	if f.ListFeedFunc != nil {
		if err := f.ListFeedFunc(ctx); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Video, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.videos[id].clone())
	}
	return out, nil
}

func (f *FakeRemote) Like(ctx context.Context, videoID string) error {
	f.record("Like:" + videoID)
	if f.LikeFunc != nil {
		if err := f.LikeFunc(ctx, videoID); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.videos[videoID]
	if !v.IsLikedBy(f.userID) {
		v.LikedBy = append(slices.Clone(v.LikedBy), f.userID)
		v.Likes++
	}
	f.videos[videoID] = v
	return nil
}

func (f *FakeRemote) Unlike(ctx context.Context, videoID string) error {
	f.record("Unlike:" + videoID)
	if f.UnlikeFunc != nil {
		if err := f.UnlikeFunc(ctx, videoID); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.videos[videoID]
	if v.IsLikedBy(f.userID) {
		v.LikedBy = slices.DeleteFunc(slices.Clone(v.LikedBy), func(id string) bool { return id == f.userID })
		v.Likes--
	}
	f.videos[videoID] = v
	return nil
}

func (f *FakeRemote) RecordView(ctx context.Context, videoID string) error {
	f.record("RecordView:" + videoID)
	if f.RecordViewFunc != nil {
		if err := f.RecordViewFunc(ctx, videoID); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.videos[videoID]
	v.Views++
	f.videos[videoID] = v
	return nil
}
