package favorites

import (
	"context"
	"testing"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.InsertSound(t, db, "s1", "One", "ghost")
	testutils.InsertSound(t, db, "s2", "Two", "ghost")

	added, err := svc.Add(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Add(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = svc.Add(ctx, "missing")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))

	exists, err := svc.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, exists)

	contents, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, models.UnknownAuthorID, contents[0].Author.ID)

	removed, err := svc.Remove(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, removed)
}
