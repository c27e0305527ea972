package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS user_folders (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				symbol TEXT NOT NULL,
				name TEXT NOT NULL,
				background_color TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS user_folder_contents (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_folder_id TEXT NOT NULL REFERENCES user_folders (id) ON DELETE CASCADE,
				content_id TEXT NOT NULL,
				date_added TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS ix_user_folder_contents_user_folder_id ON user_folder_contents (user_folder_id)`,
			`CREATE INDEX IF NOT EXISTS ix_user_folder_contents_content_id ON user_folder_contents (content_id)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
