package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/folders"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/playlists"
	"github.com/clipdeck/clipdeck/pkg/testutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()
	db := testutils.NewDB(t)
	return NewService(db, t.TempDir()), db
}

func newSound(id, title string) *models.Content {
	return &models.Content{
		ID:          id,
		ContentType: models.ContentTypeSound,
		Title:       title,
		Description: "classic",
	}
}

func TestCreateContent_DuplicateKey(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateContent(ctx, newSound("s1", "Boo")))

	err := svc.CreateContent(ctx, newSound("s1", "Boo again"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.DuplicateKey("Sound")))
}

func TestGetContent_AbsentIsNil(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	c, err := svc.GetContent(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = svc.RetrieveContent(ctx, "missing")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}

func TestRetrieveContent_OrphanAuthorDegrades(t *testing.T) {
	t.Parallel()
	svc, db := setupService(t)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "Boo", "ghost-author")

	c, err := svc.RetrieveContent(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, c.Author)
	assert.Equal(t, models.UnknownAuthorID, c.Author.ID)
	assert.Equal(t, "Unknown author", c.Author.Name)
}

func TestListContent_FiltersAndSorts(t *testing.T) {
	t.Parallel()
	svc, db := setupService(t)
	ctx := context.Background()

	testutils.InsertAuthor(t, db, "a1", "Zed")
	testutils.InsertAuthor(t, db, "a2", "Amy")

	s1 := newSound("s1", "Banana")
	s1.AuthorID = strPtr("a1")
	s1.DateAdded = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s2 := newSound("s2", "apple")
	s2.AuthorID = strPtr("a2")
	s2.DateAdded = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	s3 := newSound("s3", "Cherry")
	s3.IsOffensive = true
	s3.DateAdded = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []*models.Content{s1, s2, s3} {
		require.NoError(t, svc.CreateContent(ctx, s))
	}
	testutils.InsertSong(t, db, "g1", "Song", "rock")

	sound := models.ContentTypeSound
	ids := func(cs []*models.Content) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.ID
		}
		return out
	}

	list, total, err := svc.ListContentWithTotal(ctx, ListContentOptions{ContentType: &sound})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"s2", "s1"}, ids(list))

	list, err = svc.ListContent(ctx, ListContentOptions{ContentType: &sound, IncludeOffensive: true, Sort: models.ContentSortTitleAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1", "s3"}, ids(list))

	list, err = svc.ListContent(ctx, ListContentOptions{ContentType: &sound, Sort: models.ContentSortAuthorAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1"}, ids(list))

	search := "BAN"
	list, err = svc.ListContent(ctx, ListContentOptions{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids(list))

	search = "amy"
	list, err = svc.ListContent(ctx, ListContentOptions{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids(list))

	count, err := svc.CountContent(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	count, err = svc.CountContent(ctx, &sound)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListContent_ShareCountSort(t *testing.T) {
	t.Parallel()
	svc, db := setupService(t)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "One", "a1")
	testutils.InsertSound(t, db, "s2", "Two", "a1")
	now := time.Now()
	testutils.InsertShare(t, db, "s2", now)
	testutils.InsertShare(t, db, "s2", now)
	testutils.InsertShare(t, db, "s1", now)

	list, err := svc.ListContent(ctx, ListContentOptions{Sort: models.ContentSortShareCount})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID)
}

func TestUpdateContent(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	s := newSound("s1", "Boo")
	require.NoError(t, svc.CreateContent(ctx, s))

	s.IsOffensive = true
	s.Title = "Scary"
	require.NoError(t, svc.UpdateContent(ctx, s, UpdateContentOptions{Columns: []string{"is_offensive", "title"}}))

	reloaded, err := svc.RetrieveContent(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, reloaded.IsOffensive)
	assert.Equal(t, "Scary", reloaded.Title)
	require.NotNil(t, reloaded.SearchText)
	assert.Equal(t, "scary classic", *reloaded.SearchText)

	missing := newSound("nope", "x")
	err = svc.UpdateContent(ctx, missing, UpdateContentOptions{Columns: []string{"title"}})
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}

func TestDeleteContent_CascadesMemberships(t *testing.T) {
	t.Parallel()
	svc, db := setupService(t)
	ctx := context.Background()
	folderService := folders.NewService(db)
	playlistService := playlists.NewService(db)

	testutils.InsertSound(t, db, "s1", "Boo", "a1")
	testutils.InsertSound(t, db, "s2", "Hey", "a1")
	now := time.Now()

	folder := &models.UserFolder{ID: "f1", Symbol: "x", Name: "F", BackgroundColor: "red"}
	require.NoError(t, folderService.CreateFolder(ctx, folder))
	for _, id := range []string{"s1", "s2"} {
		_, err := folderService.AddContent(ctx, "f1", id)
		require.NoError(t, err)
	}
	playlist := &models.Playlist{ID: "pl1", Name: "Mix"}
	require.NoError(t, playlistService.CreatePlaylist(ctx, playlist))
	for _, id := range []string{"s1", "s2"} {
		_, err := playlistService.AddContent(ctx, "pl1", id)
		require.NoError(t, err)
	}
	_, err := db.NewInsert().Model(&models.Favorite{ContentID: "s1", DateAdded: now}).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&models.PinnedItem{ID: "p1", ContentID: "s1", Position: 0, AddedAt: now}).Exec(ctx)
	require.NoError(t, err)

	folderBefore, err := folderService.RetrieveFolder(ctx, "f1")
	require.NoError(t, err)
	playlistBefore, err := playlistService.RetrievePlaylist(ctx, "pl1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContent(ctx, "s1"))

	n, err := db.NewSelect().Model((*models.Content)(nil)).Where("id = ?", "s1").Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	for _, model := range []interface{}{
		(*models.UserFolderContent)(nil),
		(*models.PlaylistContent)(nil),
		(*models.Favorite)(nil),
		(*models.PinnedItem)(nil),
	} {
		n, err := db.NewSelect().Model(model).Where("content_id = ?", "s1").Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	folderAfter, err := folderService.RetrieveFolder(ctx, "f1")
	require.NoError(t, err)
	assert.NotEqual(t, folderBefore.ChangeHash, folderAfter.ChangeHash)
	assert.Equal(t, folderBefore.Version+1, folderAfter.Version)
	assert.Equal(t, models.ComputeChangeHash([]string{"x", "F", "red", folderAfter.SortPreference}, []string{"s2"}, false), folderAfter.ChangeHash)

	playlistAfter, err := playlistService.RetrievePlaylist(ctx, "pl1")
	require.NoError(t, err)
	assert.NotEqual(t, playlistBefore.ChangeHash, playlistAfter.ChangeHash)
	assert.Equal(t, models.ComputeChangeHash([]string{"Mix"}, []string{"s2"}, true), playlistAfter.ChangeHash)

	err = svc.DeleteContent(ctx, "s1")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}

func TestUpdateContent_DoesNotWriteIntoCallerColumns(t *testing.T) {
	t.Parallel()
	svc, db := setupService(t)
	ctx := context.Background()

	c := testutils.InsertSound(t, db, "s1", "Boo", "a1")
	columns := make([]string, 1, 4)
	columns[0] = "title"
	c.Title = "Boo!"
	require.NoError(t, svc.UpdateContent(ctx, c, UpdateContentOptions{Columns: columns}))

	assert.Equal(t, []string{"title", ""}, columns[:2])
}

func TestResolveFile(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	withFile := newSound("s1", "Boo")
	withFile.Filename = strPtr("s1.mp3")
	require.NoError(t, svc.CreateContent(ctx, withFile))
	require.NoError(t, os.WriteFile(filepath.Join(svc.soundsDir, "s1.mp3"), []byte("ID3"), 0644))

	missingFile := newSound("s2", "Gone")
	missingFile.Filename = strPtr("s2.mp3")
	require.NoError(t, svc.CreateContent(ctx, missingFile))

	noFile := newSound("s3", "Remote")
	require.NoError(t, svc.CreateContent(ctx, noFile))

	path, err := svc.ResolveFile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(svc.soundsDir, "s1.mp3"), path)

	_, err = svc.ResolveFile(ctx, "s2")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeFileNotFound))

	_, err = svc.ResolveFile(ctx, "s3")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeFileNotFound))
}

func strPtr(s string) *string {
	return &s
}

func TestUpsertContent_KeepsFilename(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	first := newSound("s1", "Boo")
	filename := "s1.mp3"
	first.Filename = &filename
	require.NoError(t, svc.UpsertContent(ctx, first))

	second := newSound("s1", "Boo (remastered)")
	second.IsOffensive = true
	require.NoError(t, svc.UpsertContent(ctx, second))

	got, err := svc.RetrieveContent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Boo (remastered)", got.Title)
	assert.True(t, got.IsOffensive)
	require.NotNil(t, got.Filename)
	assert.Equal(t, "s1.mp3", *got.Filename)
	require.NotNil(t, got.SearchText)
	assert.Equal(t, "boo (remastered) classic", *got.SearchText)

	count, err := svc.CountContent(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
