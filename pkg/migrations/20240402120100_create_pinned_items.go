package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS pinned_items (
				id TEXT PRIMARY KEY,
				content_id TEXT NOT NULL UNIQUE,
				position INTEGER NOT NULL,
				added_at TIMESTAMPTZ NOT NULL
			)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
