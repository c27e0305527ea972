package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS episodes (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				podcast_id TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT,
				pub_date TIMESTAMPTZ NOT NULL,
				duration REAL NOT NULL DEFAULT 0,
				remote_url TEXT NOT NULL,
				is_explicit BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE INDEX IF NOT EXISTS ix_episodes_podcast_id ON episodes (podcast_id)`,
			`CREATE TABLE IF NOT EXISTS episode_bookmarks (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				episode_id TEXT NOT NULL REFERENCES episodes (id) ON DELETE CASCADE,
				timestamp_seconds REAL NOT NULL,
				title TEXT,
				description TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS ix_episode_bookmarks_episode_id ON episode_bookmarks (episode_id)`,
			`CREATE TABLE IF NOT EXISTS episode_progress (
				episode_id TEXT PRIMARY KEY REFERENCES episodes (id) ON DELETE CASCADE,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				current_seconds REAL NOT NULL DEFAULT 0,
				duration_seconds REAL NOT NULL DEFAULT 0,
				has_finished BOOLEAN NOT NULL DEFAULT FALSE
			)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
