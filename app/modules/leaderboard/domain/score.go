package leaderboarddomain

import "math/big"

const (
	likesWeight = 70
	viewsWeight = 30

	MinScore = 0
	MaxScore = 100

	// AnonymousUsername is shown for authors without a profile or username.
	AnonymousUsername = "Anonymous"
)

// VideoStats is one video of the corpus as read for a leaderboard run.
type VideoStats struct {
	VideoID   string
	Title     string
	UserID    string
	Username  string
	AvatarURL string
	Likes     int
	Views     int
}

// Maxima holds the corpus-wide normalisation denominators.
type Maxima struct {
	Likes int
	Views int
}

// CorpusMaxima returns the largest like and view counts in the corpus, never below 1.
func CorpusMaxima(videos []VideoStats) Maxima {
	m := Maxima{Likes: 1, Views: 1}
	for _, v := range videos {
		m.Likes = max(m.Likes, v.Likes)
		m.Views = max(m.Views, v.Views)
	}
	return m
}

// CalculateScore maps engagement onto an integer in [0, 100]: 70% normalised
// likes plus 30% normalised views, rounded half-up. Zero maxima contribute
// nothing and negative counts are treated as zero.
//
// The sum is kept as an exact fraction, so a score that lands on .5 always
// rounds up.
func CalculateScore(likes, views, maxLikes, maxViews int) int {
	likes = max(likes, 0)
	views = max(views, 0)

	// Either axis alone past these multiples already exceeds MaxScore.
	if (maxLikes > 0 && likes/maxLikes >= 2) || (maxViews > 0 && views/maxViews >= 4) {
		return MaxScore
	}

	raw := new(big.Rat)
	if maxLikes > 0 {
		raw.Add(raw, big.NewRat(likesWeight*int64(likes), int64(maxLikes)))
	}
	if maxViews > 0 {
		raw.Add(raw, big.NewRat(viewsWeight*int64(views), int64(maxViews)))
	}

	// floor(raw + 1/2); raw is non-negative so truncation is floor.
	raw.Add(raw, big.NewRat(1, 2))
	rounded := new(big.Int).Quo(raw.Num(), raw.Denom())
	score := int(rounded.Int64())
	return min(max(score, MinScore), MaxScore)
}

// ScoreVideos produces one candidate entry per video in corpus order.
func ScoreVideos(videos []VideoStats, maxima Maxima) []UserScoreEntry {
	candidates := make([]UserScoreEntry, 0, len(videos))
	for _, v := range videos {
		username := v.Username
		if username == "" {
			username = AnonymousUsername
		}
		candidates = append(candidates, UserScoreEntry{
			UserID:     v.UserID,
			Username:   username,
			AvatarURL:  v.AvatarURL,
			VideoID:    v.VideoID,
			VideoTitle: v.Title,
			Score:      CalculateScore(v.Likes, v.Views, maxima.Likes, maxima.Views),
			Likes:      max(v.Likes, 0),
			Views:      max(v.Views, 0),
		})
	}
	return candidates
}
