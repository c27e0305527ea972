package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS network_call_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				call_date TIMESTAMPTZ NOT NULL,
				request_url TEXT NOT NULL,
				request_body TEXT,
				response_code INTEGER NOT NULL,
				was_successful BOOLEAN NOT NULL
			)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
