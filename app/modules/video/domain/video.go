package videodomain

import (
	"slices"
	"time"
)

// Author is the public profile shown next to a video.
type Author struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Video is the feed representation of a stored video.
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
	LikedByMe    bool      `json:"liked_by_me,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	User         Author    `json:"user"`
}

// IsLikedBy reports whether userID is in the video's liked_by set.
func (v Video) IsLikedBy(userID string) bool {
	return slices.Contains(v.LikedBy, userID)
}

// Upload describes a file the client has already put in object storage and
// now wants registered as a video.
type Upload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	FileName     string `json:"file_name"`
	SizeBytes    int64  `json:"size_bytes"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Profile is the editable part of a user record.
type Profile struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID   string
	Username string
}
