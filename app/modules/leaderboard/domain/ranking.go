package leaderboarddomain

import (
	"cmp"
	"slices"
)

// RankedEntry is a UserScoreEntry with its 1-based leaderboard position.
type RankedEntry struct {
	UserScoreEntry
	Rank int
}

// AssignRanks orders entries by score, likes and views (all descending) and
// numbers them 1..n. Complete ties keep their input order and still get
// distinct ranks.
func AssignRanks(entries []UserScoreEntry) []RankedEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b UserScoreEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Likes, a.Likes); c != 0 {
			return c
		}
		return cmp.Compare(b.Views, a.Views)
	})

	ranked := make([]RankedEntry, len(sorted))
	for i, e := range sorted {
		ranked[i] = RankedEntry{UserScoreEntry: e, Rank: i + 1}
	}
	return ranked
}

// Computation is the full output of one leaderboard pass over the corpus.
type Computation struct {
	Maxima  Maxima
	Entries []RankedEntry
}

// Compute scores every video, keeps each user's best and ranks the result.
func Compute(videos []VideoStats, opts ReducerOptions) Computation {
	maxima := CorpusMaxima(videos)
	best := ReduceBestPerUser(ScoreVideos(videos, maxima), opts)
	return Computation{
		Maxima:  maxima,
		Entries: AssignRanks(best),
	}
}

// Top returns at most n leading entries.
func Top(entries []RankedEntry, n int) []RankedEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}
