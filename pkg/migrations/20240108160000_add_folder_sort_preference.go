package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return addColumnIfMissing(ctx, tx, "user_folders", "sort_preference", "TEXT NOT NULL DEFAULT 'date_added_desc'")
	})

	Migrations.MustRegister(up, irreversible)
}
