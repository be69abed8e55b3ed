package leaderboarddomain

// UserScoreEntry is a user's best-scoring video.
type UserScoreEntry struct {
	UserID     string
	Username   string
	AvatarURL  string
	VideoID    string
	VideoTitle string
	Score      int
	Likes      int
	Views      int
}

// ReducerOptions tunes how ties between a user's videos are broken.
type ReducerOptions struct {
	// ViewsTieBreak adds views as a third comparison level. Off by default,
	// which leaves equal (score, likes) pairs with the first video seen.
	ViewsTieBreak bool
}

// ReduceBestPerUser keeps exactly one entry per user: the candidate with the
// highest score, then the most likes. Users appear in order of first occurrence.
func ReduceBestPerUser(candidates []UserScoreEntry, opts ReducerOptions) []UserScoreEntry {
	index := make(map[string]int, len(candidates))
	best := make([]UserScoreEntry, 0, len(candidates))

	for _, c := range candidates {
		i, seen := index[c.UserID]
		if !seen {
			index[c.UserID] = len(best)
			best = append(best, c)
			continue
		}
		if beats(c, best[i], opts) {
			best[i] = c
		}
	}
	return best
}

func beats(candidate, current UserScoreEntry, opts ReducerOptions) bool {
	if candidate.Score != current.Score {
		return candidate.Score > current.Score
	}
	if candidate.Likes != current.Likes {
		return candidate.Likes > current.Likes
	}
	return opts.ViewsTieBreak && candidate.Views > current.Views
}
