package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS playlists (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				change_hash TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS playlist_contents (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				playlist_id TEXT NOT NULL REFERENCES playlists (id) ON DELETE CASCADE,
				content_id TEXT NOT NULL,
				sort_order INTEGER NOT NULL,
				date_added TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS ix_playlist_contents_playlist_id ON playlist_contents (playlist_id, sort_order)`,
			`CREATE INDEX IF NOT EXISTS ix_playlist_contents_content_id ON playlist_contents (content_id)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
