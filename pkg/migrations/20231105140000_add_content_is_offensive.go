package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return addColumnIfMissing(ctx, tx, "content", "is_offensive", "BOOLEAN NOT NULL DEFAULT FALSE")
	})

	Migrations.MustRegister(up, irreversible)
}
