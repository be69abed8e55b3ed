package reelclient

import (
	"slices"
	"time"
)

// Author is the uploader projection embedded in feed rows.
type Author struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Video is one feed row as returned by GET /api/videos.
type Video struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Likes        int       `json:"likes"`
	Views        int       `json:"views"`
	LikedBy      []string  `json:"liked_by"`
	CreatedAt    time.Time `json:"created_at"`
	User         Author    `json:"user"`
}

// IsLikedBy reports whether userID is in LikedBy.
func (v Video) IsLikedBy(userID string) bool {
	return slices.Contains(v.LikedBy, userID)
}

// clone returns a copy that shares no slice storage with v.
func (v Video) clone() Video {
	v.LikedBy = slices.Clone(v.LikedBy)
	return v
}
