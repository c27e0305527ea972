package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		if err := addColumnIfMissing(ctx, tx, "user_folders", "version", "INTEGER NOT NULL DEFAULT 1"); err != nil {
			return err
		}
		return addColumnIfMissing(ctx, tx, "user_folders", "change_hash", "TEXT NOT NULL DEFAULT ''")
	})

	Migrations.MustRegister(up, irreversible)
}
