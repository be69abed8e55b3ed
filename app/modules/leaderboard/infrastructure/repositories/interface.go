package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for the leaderboard read model.
type Repository interface {
	// ReadCorpus returns every video with its owner, oldest first.
	ReadCorpus(ctx context.Context, db bun.IDB) ([]CorpusRow, error)

	// PublishSnapshot writes a new version and makes it current in one
	// transaction, keeping at most retain versions.
	PublishSnapshot(ctx context.Context, db bun.IDB, snapshot Snapshot, retain int) (*LeaderboardVersion, error)

	GetCurrentVersion(ctx context.Context, db bun.IDB) (*LeaderboardVersion, error)

	// GetCurrentEntries returns the first limit rows of the current version
	// by rank. limit <= 0 returns all of them.
	GetCurrentEntries(ctx context.Context, db bun.IDB, limit int) ([]EntryRow, error)
}
