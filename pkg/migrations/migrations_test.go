package migrations

import (
	"context"
	"sort"
	"testing"

	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

type schemaObject struct {
	Type string `bun:"type"`
	Name string `bun:"name"`
	SQL  string `bun:"sql"`
}

func dumpSchema(t *testing.T, db *bun.DB) []schemaObject {
	t.Helper()

	var objects []schemaObject
	err := db.NewRaw(`
		SELECT type, name, COALESCE(sql, '') AS sql FROM sqlite_master
		WHERE name NOT LIKE 'sqlite_%'
		ORDER BY type, name
	`).Scan(context.Background(), &objects)
	require.NoError(t, err)
	return objects
}

func columns(t *testing.T, db *bun.DB, table string) []string {
	t.Helper()

	var names []string
	err := db.NewRaw("SELECT name FROM pragma_table_info(?)", table).Scan(context.Background(), &names)
	require.NoError(t, err)
	return names
}

func TestBringUpToDate_CreatesSchema(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := BringUpToDate(ctx, db)
	require.NoError(t, err)

	tables := map[string]bool{}
	for _, o := range dumpSchema(t, db) {
		if o.Type == "table" {
			tables[o.Name] = true
		}
	}
	for _, name := range []string{
		"content", "authors", "genres", "episodes", "episode_bookmarks", "episode_progress",
		"user_folders", "user_folder_contents", "playlists", "playlist_contents",
		"favorites", "pinned_items", "update_events", "share_logs", "sync_logs",
		"network_call_logs", "app_memory", "preferences", "bun_migrations",
	} {
		assert.True(t, tables[name], "missing table %s", name)
	}
	assert.False(t, tables["audience_share_counts"], "dropped table should be gone")

	assert.Contains(t, columns(t, db, "content"), "is_offensive")
	assert.Contains(t, columns(t, db, "content"), "search_text")
	assert.Contains(t, columns(t, db, "authors"), "external_links")
	assert.Contains(t, columns(t, db, "update_events"), "attempts")
}

func TestBringUpToDate_Idempotent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := BringUpToDate(ctx, db)
	require.NoError(t, err)
	schemaOnce := dumpSchema(t, db)
	versionsOnce, err := AppliedVersions(ctx, db)
	require.NoError(t, err)

	group, err := BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, group.ID, "nothing should be applied the second time")

	assert.Equal(t, schemaOnce, dumpSchema(t, db))
	versionsTwice, err := AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, versionsOnce, versionsTwice)
}

func TestBringUpToDate_ReappliesSafelyAfterLostBookkeeping(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := BringUpToDate(ctx, db)
	require.NoError(t, err)
	schemaOnce := dumpSchema(t, db)

	// A crash between a migration's commit and its bookkeeping row looks
	// like this: the schema is there but the version is not recorded.
	_, err = db.ExecContext(ctx, "DELETE FROM bun_migrations")
	require.NoError(t, err)

	_, err = BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, schemaOnce, dumpSchema(t, db))
}

func TestAppliedVersions_AscendingAndComplete(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	versions, err := AppliedVersions(ctx, db)
	if err == nil {
		assert.Empty(t, versions)
	}

	_, err = BringUpToDate(ctx, db)
	require.NoError(t, err)

	versions, err = AppliedVersions(ctx, db)
	require.NoError(t, err)
	require.Len(t, versions, len(Migrations.Sorted()))
	assert.True(t, sort.StringsAreSorted(versions))

	// Columns added later must come after the table they extend.
	idx := func(name string) int {
		for i, v := range versions {
			if v == name {
				return i
			}
		}
		return -1
	}
	assert.Less(t, idx("20230410120000"), idx("20231105140000"))
	assert.Less(t, idx("20230502153000"), idx("20231203110000"))
	assert.Less(t, idx("20230720180100"), idx("20240515093000"))
}

func TestBringUpToDate_FailureIsMigrationFailed(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	// A stray content table without content_type makes the first migration's
	// index creation fail.
	_, err := db.ExecContext(ctx, "CREATE TABLE content (id TEXT PRIMARY KEY)")
	require.NoError(t, err)

	_, err = BringUpToDate(ctx, db)
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeMigrationFailed))

	versions, err := AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, versions)

	var n int
	err = db.NewRaw("SELECT COUNT(*) FROM sqlite_master WHERE name = 'authors'").Scan(ctx, &n)
	require.NoError(t, err)
	assert.Zero(t, n, "the failed migration should be rolled back")
}

func TestAddColumnIfMissing(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE widgets (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	add := inTx(func(ctx context.Context, tx bun.Tx) error {
		return addColumnIfMissing(ctx, tx, "widgets", "color", "TEXT NOT NULL DEFAULT 'red'")
	})
	require.NoError(t, add(ctx, db))
	require.NoError(t, add(ctx, db))

	assert.Equal(t, []string{"id", "color"}, columns(t, db, "widgets"))
}

func TestIrreversible(t *testing.T) {
	t.Parallel()
	assert.Error(t, irreversible(context.Background(), nil))
}
