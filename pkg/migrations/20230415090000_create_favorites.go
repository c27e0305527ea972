package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS favorites (
				content_id TEXT PRIMARY KEY,
				date_added TIMESTAMPTZ NOT NULL
			)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
