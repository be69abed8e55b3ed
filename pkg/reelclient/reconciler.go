package reelclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// refetchTimeout bounds a shared feed re-fetch. The fetch is detached from
// the caller that started it, so it needs its own deadline.
const refetchTimeout = 15 * time.Second

// Session supplies the signed-in user id, "" when signed out.
type Session interface {
	UserID() string
}

// SessionFunc adapts a function to Session.
type SessionFunc func() string

func (f SessionFunc) UserID() string { return f() }

// Reconciler applies likes, unlikes and views to the cache optimistically
// and settles them against the remote. Mutations of one video run one at a
// time; different videos proceed in parallel.
type Reconciler struct {
	cache   *Cache
	remote  Remote
	session Session
	logger  *slog.Logger
	onState func(videoID string, s State)

	locks *keyedMutex
	feed  singleflight.Group

	// gen counts settled remote writes. A re-fetch is shared only between
	// callers that observed the same gen, so no settle joins a fetch that
	// was issued before its own write landed.
	gen       atomic.Uint64
	appliedMu sync.Mutex
	applied   uint64

	viewedMu sync.Mutex
	viewed   map[string]struct{}
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// WithStateHook is called on every state transition of a mutation, while the
// video's lock is held.
func WithStateHook(fn func(videoID string, s State)) Option {
	return func(r *Reconciler) { r.onState = fn }
}

func NewReconciler(cache *Cache, remote Remote, session Session, opts ...Option) *Reconciler {
	r := &Reconciler{
		cache:   cache,
		remote:  remote,
		session: session,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		locks:   newKeyedMutex(),
		viewed:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the cache the reconciler writes to.
func (r *Reconciler) Cache() *Cache { return r.cache }

// Sync loads the feed into the cache, leaving videos with in-flight
// mutations untouched.
func (r *Reconciler) Sync(ctx context.Context) error {
	return r.resync(ctx, "")
}

// Like adds the session user to the video's likes.
func (r *Reconciler) Like(ctx context.Context, videoID string) (Outcome, error) {
	return r.toggleLike(ctx, videoID, true)
}

// Unlike removes the session user from the video's likes.
func (r *Reconciler) Unlike(ctx context.Context, videoID string) (Outcome, error) {
	return r.toggleLike(ctx, videoID, false)
}

func (r *Reconciler) toggleLike(ctx context.Context, videoID string, like bool) (Outcome, error) {
	userID := ""
	if r.session != nil {
		userID = r.session.UserID()
	}
	if userID == "" {
		return Outcome{State: Idle}, ErrNotAuthenticated
	}

	unlock := r.locks.Lock(videoID)
	defer unlock()

	current, ok := r.cache.Get(videoID)
	if !ok {
		return Outcome{State: Idle}, ErrUnknownVideo
	}
	if current.IsLikedBy(userID) == like {
		return Outcome{State: Idle, Video: current}, nil
	}

	token, ok := r.cache.Apply(videoID, func(v *Video) {
		if like {
			v.LikedBy = append(v.LikedBy, userID)
			v.Likes++
			return
		}
		v.LikedBy = slices.DeleteFunc(v.LikedBy, func(id string) bool { return id == userID })
		v.Likes = max(v.Likes-1, 0)
	})
	if !ok {
		return Outcome{State: Idle}, ErrUnknownVideo
	}

	r.notify(videoID, OptimisticallyApplied)

	op, call := "like", r.remote.Like
	if !like {
		op, call = "unlike", r.remote.Unlike
	}
	return r.settle(ctx, op, videoID, token, call(ctx, videoID), nil)
}

// RecordView counts a view once per video per Reconciler. A failed view is
// forgotten so a later call may retry it.
func (r *Reconciler) RecordView(ctx context.Context, videoID string) (Outcome, error) {
	unlock := r.locks.Lock(videoID)
	defer unlock()

	current, ok := r.cache.Get(videoID)
	if !ok {
		return Outcome{State: Idle}, ErrUnknownVideo
	}
	if !r.markViewed(videoID) {
		return Outcome{State: Idle, Video: current}, nil
	}

	token, ok := r.cache.Apply(videoID, func(v *Video) { v.Views++ })
	if !ok {
		r.unmarkViewed(videoID)
		return Outcome{State: Idle}, ErrUnknownVideo
	}
	r.notify(videoID, OptimisticallyApplied)

	return r.settle(ctx, "view", videoID, token, r.remote.RecordView(ctx, videoID), func() {
		r.unmarkViewed(videoID)
	})
}

// settle rolls back on remoteErr and always re-fetches. Caller holds the
// video's lock.
func (r *Reconciler) settle(ctx context.Context, op, videoID string, token UndoToken, remoteErr error, onRollback func()) (Outcome, error) {
	r.gen.Add(1)

	state := SettledSuccess
	var err error
	if remoteErr != nil {
		state = SettledRollback
		r.cache.Restore(token)
		if onRollback != nil {
			onRollback()
		}
		err = fmt.Errorf("%w: %s %s: %w", ErrRemoteFailed, op, videoID, remoteErr)
		r.logger.WarnContext(ctx, "Optimistic update rolled back",
			slog.String("op", op),
			slog.String("video_id", videoID),
			slog.Any("error", remoteErr),
		)
	}

	r.notify(videoID, state)

	refreshErr := r.resync(ctx, videoID)
	if refreshErr != nil {
		r.logger.WarnContext(ctx, "Feed re-fetch failed",
			slog.String("op", op),
			slog.String("video_id", videoID),
			slog.Any("error", refreshErr),
		)
	}

	video, _ := r.cache.Get(videoID)
	return Outcome{State: state, Video: video, RefreshErr: refreshErr}, err
}

// resync fetches the feed and refreshes the cache, keeping videos locked by
// other mutations. self is the video whose lock the caller holds.
func (r *Reconciler) resync(ctx context.Context, self string) error {
	gen := r.gen.Load()
	ch := r.feed.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refetchTimeout)
		defer cancel()
		return r.remote.ListFeed(fetchCtx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return fmt.Errorf("reelclient: re-fetch feed: %w", ctx.Err())
	}
	if res.Err != nil {
		return fmt.Errorf("reelclient: re-fetch feed: %w", res.Err)
	}
	videos, _ := res.Val.([]Video)

	r.appliedMu.Lock()
	defer r.appliedMu.Unlock()
	if gen < r.applied {
		// A fetch issued after a later write already landed.
		return nil
	}
	r.applied = gen
	r.cache.Refresh(videos, func(id string) bool {
		return id != self && r.locks.Busy(id)
	})
	return nil
}

func (r *Reconciler) notify(videoID string, s State) {
	if r.onState != nil {
		r.onState(videoID, s)
	}
}

func (r *Reconciler) markViewed(videoID string) bool {
	r.viewedMu.Lock()
	defer r.viewedMu.Unlock()
	if _, seen := r.viewed[videoID]; seen {
		return false
	}
	r.viewed[videoID] = struct{}{}
	return true
}

func (r *Reconciler) unmarkViewed(videoID string) {
	r.viewedMu.Lock()
	defer r.viewedMu.Unlock()
	delete(r.viewed, videoID)
}
