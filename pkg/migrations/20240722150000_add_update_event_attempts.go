package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		if err := addColumnIfMissing(ctx, tx, "update_events", "attempts", "INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
		if err := addColumnIfMissing(ctx, tx, "update_events", "last_attempt_at", "TIMESTAMPTZ"); err != nil {
			return err
		}
		// Rows written before attempts were counted had exactly one.
		return execAll(ctx, tx, `UPDATE update_events SET attempts = 1 WHERE did_succeed IS NOT NULL AND attempts = 0`)
	})

	Migrations.MustRegister(up, irreversible)
}
