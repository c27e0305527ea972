package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx, `DROP TABLE IF EXISTS audience_share_counts`)
	})

	Migrations.MustRegister(up, irreversible)
}
