package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS sync_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				level TEXT NOT NULL,
				message TEXT NOT NULL,
				update_event_id TEXT,
				data TEXT,
				system_name TEXT NOT NULL DEFAULT '',
				system_version TEXT NOT NULL DEFAULT '',
				app_version TEXT NOT NULL DEFAULT '',
				device_model TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS ix_sync_logs_update_event_id ON sync_logs (update_event_id)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
