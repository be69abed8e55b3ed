package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// publishLockKey serializes concurrent publishers across processes.
const publishLockKey int64 = 0x7265656c626f6172

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ReadCorpus(ctx context.Context, db bun.IDB) ([]CorpusRow, error) {
	db = r.resolveDB(db)
	var rows []CorpusRow
	err := db.NewRaw(`
		SELECT v.id AS video_id,
		       v.title,
		       v.user_id,
		       COALESCE(u.username, '') AS username,
		       COALESCE(u.avatar_url, '') AS avatar_url,
		       v.likes,
		       v.views
		FROM videos AS v
		LEFT JOIN users AS u ON u.id = v.user_id
		ORDER BY v.created_at ASC, v.id ASC
	`).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ReadCorpus: %w", err)
	}
	return rows, nil
}

func (r *Impl) PublishSnapshot(ctx context.Context, db bun.IDB, snapshot Snapshot, retain int) (*LeaderboardVersion, error) {
	db = r.resolveDB(db)
	if retain < 1 {
		retain = 1
	}

	version := &LeaderboardVersion{
		ID:                uuid.New(),
		EntryCount:        len(snapshot.Entries),
		MaxLikes:          snapshot.MaxLikes,
		MaxViews:          snapshot.MaxViews,
		CorpusFingerprint: snapshot.CorpusFingerprint,
	}

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", publishLockKey); err != nil {
			return fmt.Errorf("acquire publish lock: %w", err)
		}

		if _, err := tx.NewInsert().Model(version).Returning("created_at").Exec(ctx); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}

		if len(snapshot.Entries) > 0 {
			entries := make([]LeaderboardEntry, len(snapshot.Entries))
			for i, e := range snapshot.Entries {
				e.ID = 0
				e.VersionID = version.ID
				entries[i] = e
			}
			if _, err := tx.NewInsert().Model(&entries).Exec(ctx); err != nil {
				return fmt.Errorf("insert entries: %w", err)
			}
		}

		if _, err := tx.NewUpdate().
			Model((*LeaderboardVersion)(nil)).
			Set("is_current = false").
			Where("is_current").
			Exec(ctx); err != nil {
			return fmt.Errorf("retire current version: %w", err)
		}
		if _, err := tx.NewUpdate().
			Model((*LeaderboardVersion)(nil)).
			Set("is_current = true").
			Where("id = ?", version.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("promote version: %w", err)
		}

		keep := tx.NewSelect().
			Model((*LeaderboardVersion)(nil)).
			Column("id").
			Order("created_at DESC").
			Limit(retain)
		if _, err := tx.NewDelete().
			Model((*LeaderboardVersion)(nil)).
			Where("id NOT IN (?)", keep).
			Exec(ctx); err != nil {
			return fmt.Errorf("prune versions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.PublishSnapshot: %w", err)
	}

	version.IsCurrent = true
	return version, nil
}

func (r *Impl) GetCurrentVersion(ctx context.Context, db bun.IDB) (*LeaderboardVersion, error) {
	db = r.resolveDB(db)
	version := new(LeaderboardVersion)
	err := db.NewSelect().Model(version).Where("lv.is_current").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoCurrentVersion
		}
		return nil, fmt.Errorf("leaderboarddb.GetCurrentVersion: %w", err)
	}
	return version, nil
}

func (r *Impl) GetCurrentEntries(ctx context.Context, db bun.IDB, limit int) ([]EntryRow, error) {
	db = r.resolveDB(db)
	var rows []EntryRow
	q := db.NewSelect().
		TableExpr("leaderboard_entries AS le").
		Join("JOIN leaderboard_versions AS lv ON lv.id = le.version_id AND lv.is_current").
		Join("LEFT JOIN users AS u ON u.id = le.user_id").
		Join("LEFT JOIN videos AS v ON v.id = le.video_id").
		ColumnExpr("le.rank, le.user_id, le.video_id, le.score, le.likes, le.views, le.version_id").
		ColumnExpr("COALESCE(u.username, '') AS username").
		ColumnExpr("COALESCE(u.avatar_url, '') AS avatar_url").
		ColumnExpr("COALESCE(v.title, '') AS video_title").
		ColumnExpr("lv.created_at").
		OrderExpr("le.rank ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("leaderboarddb.GetCurrentEntries: %w", err)
	}
	return rows, nil
}
