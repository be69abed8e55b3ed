package videodb

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the public profile row referenced by videos and likes.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string    `bun:"id,pk" json:"id"`
	Username  string    `bun:"username,nullzero" json:"username"`
	AvatarURL string    `bun:"avatar_url,nullzero" json:"avatar_url"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Video is a stored video and its engagement counters.
type Video struct {
	bun.BaseModel `bun:"table:videos,alias:v"`

	ID           string    `bun:"id,pk" json:"id"`
	UserID       string    `bun:"user_id,notnull" json:"user_id"`
	Title        string    `bun:"title,notnull" json:"title"`
	Description  string    `bun:"description,nullzero" json:"description"`
	VideoURL     string    `bun:"video_url,notnull" json:"video_url"`
	ThumbnailURL string    `bun:"thumbnail_url,nullzero" json:"thumbnail_url"`
	Likes        int       `bun:"likes,notnull,default:0" json:"likes"`
	Views        int       `bun:"views,notnull,default:0" json:"views"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	User   *User       `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Likers []VideoLike `bun:"rel:has-many,join:id=video_id" json:"-"`
}

// VideoLike records that a user likes a video. The composite key makes a
// second like by the same user a no-op.
type VideoLike struct {
	bun.BaseModel `bun:"table:video_likes,alias:vl"`

	VideoID   string    `bun:"video_id,pk" json:"video_id"`
	UserID    string    `bun:"user_id,pk" json:"user_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
