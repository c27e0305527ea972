package folders

import (
	"context"
	"sync"
	"testing"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/testutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newFolder(t *testing.T, svc *Service, name string) *models.UserFolder {
	t.Helper()
	folder := &models.UserFolder{Symbol: "star", Name: name, BackgroundColor: "pastelPurple"}
	require.NoError(t, svc.CreateFolder(context.Background(), folder))
	return folder
}

func countMembership(t *testing.T, db *bun.DB, folderID, contentID string) int {
	t.Helper()
	n, err := db.NewSelect().
		Model((*models.UserFolderContent)(nil)).
		Where("user_folder_id = ?", folderID).
		Where("content_id = ?", contentID).
		Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestCreateFolder(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)

	folder := newFolder(t, svc, "Faves")
	assert.NotEmpty(t, folder.ID)
	assert.Equal(t, 1, folder.Version)
	assert.NotEmpty(t, folder.ChangeHash)
	assert.Equal(t, models.FolderSortDateAddedDesc, folder.SortPreference)

	got, err := svc.RetrieveFolder(context.Background(), folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ChangeHash, got.ChangeHash)
	assert.Zero(t, got.ContentCount)
}

func TestAddContent_NoDuplicateMembership(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "Boo", "a1")
	folder := newFolder(t, svc, "Faves")

	added, err := svc.AddContent(ctx, folder.ID, "s1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddContent(ctx, folder.ID, "s1")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 1, countMembership(t, db, folder.ID, "s1"))

	exists, err := svc.Exists(ctx, folder.ID, "s1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAddContent_ConcurrentAddsLeaveOneRow(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "Boo", "a1")
	folder := newFolder(t, svc, "Faves")

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			added, err := svc.AddContent(ctx, folder.ID, "s1")
			assert.NoError(t, err)
			results[i] = added
		}(i)
	}
	wg.Wait()

	addedCount := 0
	for _, added := range results {
		if added {
			addedCount++
		}
	}
	assert.Equal(t, 1, addedCount)
	assert.Equal(t, 1, countMembership(t, db, folder.ID, "s1"))
}

func TestUniqueIndexBacksTheExistenceCheck(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "Boo", "a1")
	folder := newFolder(t, svc, "Faves")
	_, err := svc.AddContent(ctx, folder.ID, "s1")
	require.NoError(t, err)

	_, err = db.NewInsert().Model(&models.UserFolderContent{UserFolderID: folder.ID, ContentID: "s1"}).Exec(ctx)
	require.Error(t, err)
}

func TestAddContent_Missing(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "Boo", "a1")
	folder := newFolder(t, svc, "Faves")

	_, err := svc.AddContent(ctx, "nope", "s1")
	assert.True(t, errors.Is(err, errcodes.NotFound("Folder")))

	_, err = svc.AddContent(ctx, folder.ID, "nope")
	assert.True(t, errors.Is(err, errcodes.NotFound("Content")))
}

func TestChangeHashTracksMembershipAndMetadata(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "Boo", "a1")
	folder := newFolder(t, svc, "Faves")
	empty := folder.ChangeHash

	_, err := svc.AddContent(ctx, folder.ID, "s1")
	require.NoError(t, err)
	withOne, err := svc.RetrieveFolder(ctx, folder.ID)
	require.NoError(t, err)
	assert.NotEqual(t, empty, withOne.ChangeHash)
	assert.Equal(t, 2, withOne.Version)
	assert.Equal(t, 1, withOne.ContentCount)

	removed, err := svc.RemoveContent(ctx, folder.ID, "s1")
	require.NoError(t, err)
	assert.True(t, removed)
	afterRemove, err := svc.RetrieveFolder(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, empty, afterRemove.ChangeHash)
	assert.Equal(t, 3, afterRemove.Version)

	removed, err = svc.RemoveContent(ctx, folder.ID, "s1")
	require.NoError(t, err)
	assert.False(t, removed)

	afterRemove.Name = "Renamed"
	require.NoError(t, svc.UpdateFolder(ctx, afterRemove, UpdateFolderOptions{Columns: []string{"name"}}))
	renamed, err := svc.RetrieveFolder(ctx, folder.ID)
	require.NoError(t, err)
	assert.NotEqual(t, empty, renamed.ChangeHash)
	assert.Equal(t, 4, renamed.Version)
}

func TestListContents_SortPreference(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.InsertAuthor(t, db, "a1", "Zoe")
	testutils.InsertAuthor(t, db, "a2", "Abe")
	testutils.InsertSound(t, db, "s1", "Beta", "a2")
	testutils.InsertSound(t, db, "s2", "Alpha", "a1")
	testutils.InsertSound(t, db, "s3", "Gamma", "ghost")

	folder := newFolder(t, svc, "Mix")
	for _, id := range []string{"s1", "s2", "s3"} {
		_, err := svc.AddContent(ctx, folder.ID, id)
		require.NoError(t, err)
	}

	ids := func(cs []*models.Content) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.ID
		}
		return out
	}

	contents, err := svc.ListContents(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s2", "s1"}, ids(contents))
	assert.Equal(t, models.UnknownAuthorID, contents[0].Author.ID)

	folder.SortPreference = models.FolderSortTitleAsc
	require.NoError(t, svc.UpdateFolder(ctx, folder, UpdateFolderOptions{Columns: []string{"sort_preference"}}))
	contents, err = svc.ListContents(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1", "s3"}, ids(contents))

	containing, err := svc.FoldersContaining(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{folder.ID}, containing)
}

func TestDeleteFolder(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "Boo", "a1")
	folder := newFolder(t, svc, "Faves")
	_, err := svc.AddContent(ctx, folder.ID, "s1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFolder(ctx, folder.ID))
	assert.Equal(t, 0, countMembership(t, db, folder.ID, "s1"))
	assert.True(t, errcodes.HasCode(svc.DeleteFolder(ctx, folder.ID), errcodes.CodeNotFound))

	count, err := svc.CountFolders(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateFolder_DoesNotWriteIntoCallerColumns(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	folder := newFolder(t, svc, "Mine")

	columns := make([]string, 1, 4)
	columns[0] = "name"
	folder.Name = "Ours"
	require.NoError(t, svc.UpdateFolder(context.Background(), folder, UpdateFolderOptions{Columns: columns}))

	assert.Equal(t, []string{"name", ""}, columns[:2])
}
