package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

// Older stores may already hold duplicate memberships, so those are collapsed
// to the earliest row before the unique indices go in.
func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`DELETE FROM user_folder_contents WHERE id NOT IN (
				SELECT MIN(id) FROM user_folder_contents GROUP BY user_folder_id, content_id
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_user_folder_contents_membership ON user_folder_contents (user_folder_id, content_id)`,
			`DELETE FROM playlist_contents WHERE id NOT IN (
				SELECT MIN(id) FROM playlist_contents GROUP BY playlist_id, content_id
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_playlist_contents_membership ON playlist_contents (playlist_id, content_id)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
