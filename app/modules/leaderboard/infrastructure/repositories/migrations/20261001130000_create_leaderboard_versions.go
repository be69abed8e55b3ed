package leaderboardmigrations

import (
	"context"
	"fmt"

	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard_versions and leaderboard_entries tables...")

		if _, err := db.NewCreateTable().Model((*leaderboarddb.LeaderboardVersion)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().
			Model((*leaderboarddb.LeaderboardEntry)(nil)).
			IfNotExists().
			ForeignKey(`("version_id") REFERENCES "leaderboard_versions" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}

		for _, stmt := range []string{
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_leaderboard_versions_single_current ON leaderboard_versions (is_current) WHERE is_current",
			"CREATE INDEX IF NOT EXISTS idx_leaderboard_versions_created_at ON leaderboard_versions (created_at DESC)",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_leaderboard_entries_version_rank ON leaderboard_entries (version_id, rank)",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_leaderboard_entries_version_user ON leaderboard_entries (version_id, user_id)",
		} {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Leaderboard tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard tables...")

		if _, err := db.NewDropTable().Model((*leaderboarddb.LeaderboardEntry)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*leaderboarddb.LeaderboardVersion)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Leaderboard tables dropped successfully!")
		return nil
	})
}
