package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS share_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				install_id TEXT NOT NULL,
				content_id TEXT NOT NULL,
				content_type TEXT NOT NULL,
				date_time TIMESTAMPTZ NOT NULL,
				destination TEXT NOT NULL DEFAULT '',
				sent_to_server BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE INDEX IF NOT EXISTS ix_share_logs_content_id ON share_logs (content_id)`,
			`CREATE INDEX IF NOT EXISTS ix_share_logs_sent_to_server ON share_logs (sent_to_server)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
