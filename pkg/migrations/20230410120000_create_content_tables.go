package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := inTx(func(ctx context.Context, tx bun.Tx) error {
		return execAll(ctx, tx,
			`CREATE TABLE IF NOT EXISTS authors (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				photo TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS genres (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				symbol TEXT NOT NULL,
				name TEXT NOT NULL,
				is_hidden BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE TABLE IF NOT EXISTS content (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				content_type TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				author_id TEXT,
				genre_id TEXT,
				duration REAL NOT NULL DEFAULT 0,
				filename TEXT,
				is_from_server BOOLEAN NOT NULL DEFAULT FALSE,
				date_added TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS ix_content_content_type ON content (content_type)`,
			`CREATE INDEX IF NOT EXISTS ix_content_author_id ON content (author_id)`,
			`CREATE INDEX IF NOT EXISTS ix_content_genre_id ON content (genre_id)`,
		)
	})

	Migrations.MustRegister(up, irreversible)
}
