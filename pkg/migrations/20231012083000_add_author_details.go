package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		if err := addColumnIfMissing(ctx, tx, "authors", "description", "TEXT"); err != nil {
			return err
		}
		return addColumnIfMissing(ctx, tx, "authors", "external_links", "TEXT")
	})

	Migrations.MustRegister(up, irreversible)
}
