package videodb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new video repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListFeed returns the newest videos with their author and likers loaded.
func (r *Impl) ListFeed(ctx context.Context, db bun.IDB, limit int) ([]*Video, error) {
	db = r.resolveDB(db)
	var videos []*Video
	q := db.NewSelect().
		Model(&videos).
		Relation("User").
		Relation("Likers").
		Order("v.created_at DESC", "v.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("videodb.ListFeed: %w", err)
	}
	return videos, nil
}

// GetVideo loads one video with its author and likers.
func (r *Impl) GetVideo(ctx context.Context, db bun.IDB, videoID string) (*Video, error) {
	db = r.resolveDB(db)
	video := new(Video)
	err := db.NewSelect().
		Model(video).
		Relation("User").
		Relation("Likers").
		Where("v.id = ?", videoID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("videodb.GetVideo: %w", err)
	}
	return video, nil
}

func (r *Impl) CreateVideo(ctx context.Context, db bun.IDB, video *Video) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(video).Returning("created_at").Exec(ctx); err != nil {
		return fmt.Errorf("videodb.CreateVideo: %w", err)
	}
	return nil
}

func (r *Impl) LikeVideo(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error) {
	db = r.resolveDB(db)
	changed := false
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockVideo(ctx, tx, videoID); err != nil {
			return err
		}

		res, err := tx.NewInsert().
			Model(&VideoLike{VideoID: videoID, UserID: userID}).
			On("CONFLICT (video_id, user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		changed = true

		_, err = tx.NewUpdate().
			Model((*Video)(nil)).
			Set("likes = likes + 1").
			Where("id = ?", videoID).
			Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("videodb.LikeVideo: %w", err)
	}
	return changed, nil
}

func (r *Impl) UnlikeVideo(ctx context.Context, db bun.IDB, videoID, userID string) (bool, error) {
	db = r.resolveDB(db)
	changed := false
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockVideo(ctx, tx, videoID); err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*VideoLike)(nil)).
			Where("video_id = ? AND user_id = ?", videoID, userID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		changed = true

		_, err = tx.NewUpdate().
			Model((*Video)(nil)).
			Set("likes = GREATEST(likes - 1, 0)").
			Where("id = ?", videoID).
			Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("videodb.UnlikeVideo: %w", err)
	}
	return changed, nil
}

// IncrementViews bumps the view counter and returns the new value.
func (r *Impl) IncrementViews(ctx context.Context, db bun.IDB, videoID string) (int, error) {
	db = r.resolveDB(db)
	var views int
	err := db.NewUpdate().
		Model((*Video)(nil)).
		Set("views = views + 1").
		Where("id = ?", videoID).
		Returning("views").
		Scan(ctx, &views)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("videodb.IncrementViews: %w", err)
	}
	return views, nil
}

// UpsertUser creates the profile row or refreshes username and avatar.
func (r *Impl) UpsertUser(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO UPDATE").
		Set("username = COALESCE(EXCLUDED.username, u.username)").
		Set("avatar_url = COALESCE(EXCLUDED.avatar_url, u.avatar_url)").
		Set("updated_at = now()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("videodb.UpsertUser: %w", err)
	}
	return nil
}

// EnsureUser creates the profile row if it is missing and leaves an existing
// one untouched.
func (r *Impl) EnsureUser(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("videodb.EnsureUser: %w", err)
	}
	return nil
}

func (r *Impl) GetUser(ctx context.Context, db bun.IDB, userID string) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	if err := db.NewSelect().Model(user).Where("u.id = ?", userID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("videodb.GetUser: %w", err)
	}
	return user, nil
}

// lockVideo takes a row lock so concurrent like/unlike on the same video
// serialize on the counter.
func lockVideo(ctx context.Context, tx bun.Tx, videoID string) error {
	var id string
	err := tx.NewSelect().
		Model((*Video)(nil)).
		Column("id").
		Where("id = ?", videoID).
		For("UPDATE").
		Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
