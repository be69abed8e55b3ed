package leaderboarddomain

// LeaderboardRow is the public projection of one ranked user.
type LeaderboardRow struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url"`
	VideoID    string `json:"video_id"`
	VideoTitle string `json:"video_title"`
	Score      int    `json:"score"`
	Likes      int    `json:"likes"`
	Views      int    `json:"views"`
}

// Row projects a ranked entry.
func (e RankedEntry) Row() LeaderboardRow {
	return LeaderboardRow{
		Rank:       e.Rank,
		UserID:     e.UserID,
		Username:   e.Username,
		AvatarURL:  e.AvatarURL,
		VideoID:    e.VideoID,
		VideoTitle: e.VideoTitle,
		Score:      e.Score,
		Likes:      e.Likes,
		Views:      e.Views,
	}
}

// Rows projects every entry in order.
func Rows(entries []RankedEntry) []LeaderboardRow {
	out := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		out[i] = e.Row()
	}
	return out
}
