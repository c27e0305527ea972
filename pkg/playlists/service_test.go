package playlists

import (
	"context"
	"testing"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentIDs(cs []*models.Content) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestPlaylist_AddKeepsOrderAndSkipsDuplicates(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		testutils.InsertSound(t, db, id, "Sound "+id, "a1")
	}
	playlist := &models.Playlist{Name: "Road trip"}
	require.NoError(t, svc.CreatePlaylist(ctx, playlist))

	for _, id := range []string{"s2", "s1", "s3", "s1"} {
		_, err := svc.AddContent(ctx, playlist.ID, id)
		require.NoError(t, err)
	}

	contents, err := svc.ListContents(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1", "s3"}, contentIDs(contents))

	got, err := svc.RetrievePlaylist(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ContentCount)
}

func TestPlaylist_ReorderAndRemove(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		testutils.InsertSound(t, db, id, "Sound "+id, "a1")
	}
	playlist := &models.Playlist{Name: "Mix"}
	require.NoError(t, svc.CreatePlaylist(ctx, playlist))
	for _, id := range []string{"s1", "s2", "s3"} {
		_, err := svc.AddContent(ctx, playlist.ID, id)
		require.NoError(t, err)
	}
	before, err := svc.RetrievePlaylist(ctx, playlist.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(ctx, playlist.ID, []string{"s3", "s1", "s2"}))
	contents, err := svc.ListContents(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s1", "s2"}, contentIDs(contents))

	after, err := svc.RetrievePlaylist(ctx, playlist.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.ChangeHash, after.ChangeHash, "order is part of the fingerprint")

	err = svc.Reorder(ctx, playlist.ID, []string{"s3", "s1"})
	assert.True(t, errcodes.HasCode(err, "validation_error"))
	err = svc.Reorder(ctx, playlist.ID, []string{"s3", "s1", "s1"})
	assert.True(t, errcodes.HasCode(err, "validation_error"))

	removed, err := svc.RemoveContent(ctx, playlist.ID, "s1")
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = svc.AddContent(ctx, playlist.ID, "s1")
	require.NoError(t, err)
	contents, err = svc.ListContents(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s2", "s1"}, contentIDs(contents))
}

func TestPlaylist_RenameAndDelete(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	playlist := &models.Playlist{Name: "Old"}
	require.NoError(t, svc.CreatePlaylist(ctx, playlist))

	require.NoError(t, svc.RenamePlaylist(ctx, playlist.ID, "New"))
	got, err := svc.RetrievePlaylist(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.NotEqual(t, playlist.ChangeHash, got.ChangeHash)

	list, err := svc.ListPlaylists(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeletePlaylist(ctx, playlist.ID))
	_, err = svc.RetrievePlaylist(ctx, playlist.ID)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
	assert.True(t, errcodes.HasCode(svc.RenamePlaylist(ctx, playlist.ID, "x"), errcodes.CodeNotFound))
}
