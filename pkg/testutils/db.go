package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/migrations"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewDB returns a migrated in-memory store that is closed when the test ends.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// InsertAuthor stores an author with the given id and name.
func InsertAuthor(t testing.TB, db bun.IDB, id, name string) *models.Author {
	t.Helper()

	now := time.Now()
	author := &models.Author{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.NewInsert().Model(author).Exec(context.Background())
	require.NoError(t, err)
	return author
}

// InsertSound stores a bundled sound by the given author.
func InsertSound(t testing.TB, db bun.IDB, id, title, authorID string) *models.Content {
	t.Helper()
	return insertContent(t, db, &models.Content{
		ID:          id,
		ContentType: models.ContentTypeSound,
		Title:       title,
		AuthorID:    &authorID,
	})
}

// InsertSong stores a bundled song in the given genre.
func InsertSong(t testing.TB, db bun.IDB, id, title, genreID string) *models.Content {
	t.Helper()
	return insertContent(t, db, &models.Content{
		ID:          id,
		ContentType: models.ContentTypeSong,
		Title:       title,
		GenreID:     &genreID,
	})
}

func insertContent(t testing.TB, db bun.IDB, c *models.Content) *models.Content {
	t.Helper()

	now := time.Now()
	c.DateAdded = now
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := db.NewInsert().Model(c).Exec(context.Background())
	require.NoError(t, err)
	return c
}

// InsertShare records a share of contentID at the given time.
func InsertShare(t testing.TB, db bun.IDB, contentID string, at time.Time) {
	t.Helper()

	_, err := db.NewInsert().Model(&models.ShareLog{
		InstallID:   "test-install",
		ContentID:   contentID,
		ContentType: models.ContentTypeSound,
		DateTime:    at,
		Destination: "other",
	}).Exec(context.Background())
	require.NoError(t, err)
}
