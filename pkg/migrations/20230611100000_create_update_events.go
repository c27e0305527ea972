package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS update_events (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				content_id TEXT NOT NULL,
				date_time TIMESTAMPTZ NOT NULL,
				media_type TEXT NOT NULL,
				event_type TEXT NOT NULL,
				did_succeed BOOLEAN
			)`,
			`CREATE INDEX IF NOT EXISTS ix_update_events_date_time ON update_events (date_time)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
