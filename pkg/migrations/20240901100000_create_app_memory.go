package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS app_memory (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				install_id TEXT NOT NULL,
				last_update_checkpoint TIMESTAMPTZ,
				has_imported_bundled_data BOOLEAN NOT NULL DEFAULT FALSE,
				last_sync_at TIMESTAMPTZ,
				last_sync_status TEXT
			)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
