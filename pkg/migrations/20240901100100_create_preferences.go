package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS preferences (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				show_explicit_content BOOLEAN NOT NULL DEFAULT FALSE,
				sound_sort_option TEXT NOT NULL DEFAULT 'date_added_desc',
				song_sort_option TEXT NOT NULL DEFAULT 'date_added_desc',
				folder_sort_option TEXT NOT NULL DEFAULT 'date_added_desc'
			)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
