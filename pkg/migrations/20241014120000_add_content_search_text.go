package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		if err := addColumnIfMissing(ctx, tx, "content", "search_text", "TEXT"); err != nil {
			return err
		}
		return execAll(ctx, tx,
			`UPDATE content SET search_text = LOWER(title || ' ' || description) WHERE search_text IS NULL`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
