package leaderboarddb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LeaderboardVersion is one published leaderboard. Exactly one row is current
// once anything has been published.
type LeaderboardVersion struct {
	bun.BaseModel `bun:"table:leaderboard_versions,alias:lv"`

	ID                uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	IsCurrent         bool      `bun:"is_current,notnull,default:false" json:"is_current"`
	EntryCount        int       `bun:"entry_count,notnull" json:"entry_count"`
	MaxLikes          int       `bun:"max_likes,notnull" json:"max_likes"`
	MaxViews          int       `bun:"max_views,notnull" json:"max_views"`
	CorpusFingerprint string    `bun:"corpus_fingerprint,notnull" json:"corpus_fingerprint"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:clock_timestamp()" json:"created_at"`

	Entries []LeaderboardEntry `bun:"rel:has-many,join:id=version_id" json:"-"`
}

// LeaderboardEntry is one ranked user inside a version.
type LeaderboardEntry struct {
	bun.BaseModel `bun:"table:leaderboard_entries,alias:le"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	VersionID uuid.UUID `bun:"version_id,type:uuid,notnull" json:"version_id"`
	VideoID   string    `bun:"video_id,notnull" json:"video_id"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	Score     int       `bun:"score,notnull" json:"score"`
	Rank      int       `bun:"rank,notnull" json:"rank"`
	Likes     int       `bun:"likes,notnull" json:"likes"`
	Views     int       `bun:"views,notnull" json:"views"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// CorpusRow is one video with its owner's profile as read for scoring.
type CorpusRow struct {
	VideoID   string `bun:"video_id"`
	Title     string `bun:"title"`
	UserID    string `bun:"user_id"`
	Username  string `bun:"username"`
	AvatarURL string `bun:"avatar_url"`
	Likes     int    `bun:"likes"`
	Views     int    `bun:"views"`
}

// EntryRow is a current-version entry joined with user and video details.
type EntryRow struct {
	Rank       int       `bun:"rank"`
	UserID     string    `bun:"user_id"`
	Username   string    `bun:"username"`
	AvatarURL  string    `bun:"avatar_url"`
	VideoID    string    `bun:"video_id"`
	VideoTitle string    `bun:"video_title"`
	Score      int       `bun:"score"`
	Likes      int       `bun:"likes"`
	Views      int       `bun:"views"`
	VersionID  uuid.UUID `bun:"version_id"`
	CreatedAt  time.Time `bun:"created_at"`
}

// Snapshot is everything PublishSnapshot writes for one version.
type Snapshot struct {
	MaxLikes          int
	MaxViews          int
	CorpusFingerprint string
	Entries           []LeaderboardEntry
}
