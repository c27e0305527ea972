package migrations

import (
	"context"
	"database/sql"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// NewMigrator returns a migrator that only records a version once its up
// function has returned successfully.
func NewMigrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, Migrations, migrate.WithMarkAppliedOnSuccess(true))
}

// BringUpToDate applies every unapplied migration in ascending version order.
// Any failure is returned as MigrationFailed and leaves the failing version
// unrecorded so the next start retries it.
func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := NewMigrator(db)
	err := migrator.Init(ctx)
	if err != nil {
		return nil, errors.WithStack(errcodes.MigrationFailed(err))
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.WithStack(errcodes.MigrationFailed(err))
	}
	return group, nil
}

// AppliedVersions returns the names of the applied migrations in ascending
// order.
func AppliedVersions(ctx context.Context, db *bun.DB) ([]string, error) {
	ms, err := NewMigrator(db).MigrationsWithStatus(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	versions := make([]string, 0, len(ms))
	for _, m := range ms {
		if m.IsApplied() {
			versions = append(versions, m.Name)
		}
	}
	return versions, nil
}

// inTx runs a migration body in a single transaction so a failure never
// leaves half of its statements applied.
func inTx(fn func(ctx context.Context, tx bun.Tx) error) func(context.Context, *bun.DB) error {
	return func(ctx context.Context, db *bun.DB) error {
		return errors.WithStack(db.RunInTx(ctx, &sql.TxOptions{}, fn))
	}
}

// execAll runs the statements in order and stops at the first error.
func execAll(ctx context.Context, tx bun.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "exec %q", stmt)
		}
	}
	return nil
}

// addColumnIfMissing is ALTER TABLE ADD COLUMN that does nothing when the
// column is already there.
func addColumnIfMissing(ctx context.Context, tx bun.Tx, table, column, definition string) error {
	var n int
	err := tx.NewRaw("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(ctx, &n)
	if err != nil {
		return errors.WithStack(err)
	}
	if n > 0 {
		return nil
	}
	_, err = tx.ExecContext(ctx, "ALTER TABLE ? ADD COLUMN ? "+definition, bun.Ident(table), bun.Ident(column))
	return errors.Wrapf(err, "add column %s.%s", table, column)
}

// irreversible is the down function of every migration; the schema only
// moves forward.
func irreversible(_ context.Context, _ *bun.DB) error {
	return errors.New("migrations are forward-only")
}
