package videomigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating users, videos and video_likes tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					id          TEXT PRIMARY KEY,
					username    TEXT,
					avatar_url  TEXT,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);

				CREATE TABLE IF NOT EXISTS videos (
					id             TEXT PRIMARY KEY,
					user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					title          TEXT NOT NULL,
					description    TEXT,
					video_url      TEXT NOT NULL,
					thumbnail_url  TEXT,
					likes          INTEGER NOT NULL DEFAULT 0 CHECK (likes >= 0),
					views          INTEGER NOT NULL DEFAULT 0 CHECK (views >= 0),
					created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos(created_at DESC);
				CREATE INDEX IF NOT EXISTS idx_videos_user_id ON videos(user_id);

				CREATE TABLE IF NOT EXISTS video_likes (
					video_id    TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
					user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (video_id, user_id)
				);
				CREATE INDEX IF NOT EXISTS idx_video_likes_user_id ON video_likes(user_id);
			`); err != nil {
				return fmt.Errorf("failed to create video tables: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping video tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS video_likes;
				DROP TABLE IF EXISTS videos;
				DROP TABLE IF EXISTS users;
			`); err != nil {
				return fmt.Errorf("failed to drop video tables: %w", err)
			}
			return nil
		})
	})
}
