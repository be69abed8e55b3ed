package leaderboarddomain

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// CorpusFingerprint hashes the inputs that determine a leaderboard so two
// versions built from identical counts can be recognised. Input order does
// not matter.
func CorpusFingerprint(videos []VideoStats) string {
	sorted := slices.Clone(videos)
	slices.SortFunc(sorted, func(a, b VideoStats) int {
		return cmp.Compare(a.VideoID, b.VideoID)
	})

	var sb strings.Builder
	for _, v := range sorted {
		fmt.Fprintf(&sb, "%s|%s|%d|%d;", v.VideoID, v.UserID, v.Likes, v.Views)
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}
