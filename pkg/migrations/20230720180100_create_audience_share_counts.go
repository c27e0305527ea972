package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS audience_share_counts (
				content_id TEXT PRIMARY KEY,
				content_type TEXT NOT NULL,
				share_count INTEGER NOT NULL DEFAULT 0
			)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
