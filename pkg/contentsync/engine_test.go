package contentsync

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/content"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/folders"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/playlists"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/clipdeck/clipdeck/pkg/sharelogs"
	"github.com/clipdeck/clipdeck/pkg/synclogs"
	"github.com/clipdeck/clipdeck/pkg/testutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db     *bun.DB
	cfg    *config.Config
	feed   *fakeFeed
	engine *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutils.NewDB(t)
	cfg := config.NewForTest()
	cfg.SoundsDir = t.TempDir()
	cfg.FetchTimeout = 5 * time.Second
	feed := newFakeFeed()

	return &fixture{
		db:     db,
		cfg:    cfg,
		feed:   feed,
		engine: NewEngine(db, feed, cfg),
	}
}

func (f *fixture) event(t *testing.T, id string) *models.UpdateEvent {
	t.Helper()
	event, err := NewEventService(f.db).RetrieveEvent(context.Background(), id)
	require.NoError(t, err)
	return event
}

func (f *fixture) checkpoint(t *testing.T) *time.Time {
	t.Helper()
	memory, err := settings.NewService(f.db).RetrieveAppMemory(context.Background())
	require.NoError(t, err)
	return memory.LastUpdateCheckpoint
}

func (f *fixture) getContent(t *testing.T, id string) *models.Content {
	t.Helper()
	c, err := content.NewService(f.db, f.cfg.SoundsDir).GetContent(context.Background(), id)
	require.NoError(t, err)
	return c
}

func TestSync_PartialFailureIsolation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.feed.addSound("s1", "One", "a1")
	f.feed.addSound("s3", "Three", "a1")
	f.feed.soundErrs["s2"] = errcodes.FetchError(errors.New("HTTP 500"))
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeAdd, t0)
	f.feed.addEvent("e2", "s2", models.MediaTypeSound, models.EventTypeAdd, t0.Add(time.Minute))
	f.feed.addEvent("e3", "s3", models.MediaTypeSound, models.EventTypeAdd, t0.Add(2*time.Minute))

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, StateDone, f.engine.State())

	assert.NotNil(t, f.getContent(t, "s1"))
	assert.Nil(t, f.getContent(t, "s2"))
	assert.NotNil(t, f.getContent(t, "s3"))

	assert.Equal(t, models.UpdateEventStatusSucceeded, f.event(t, "e1").Status())
	failed := f.event(t, "e2")
	assert.Equal(t, models.UpdateEventStatusFailed, failed.Status())
	assert.Equal(t, 1, failed.Attempts)
	assert.Equal(t, models.UpdateEventStatusSucceeded, f.event(t, "e3").Status())

	checkpoint := f.checkpoint(t)
	require.NotNil(t, checkpoint)
	assert.True(t, checkpoint.Equal(t0), "checkpoint stalls before the failed event")

	eventID := "e2"
	logs, err := synclogs.NewService(f.db).ListSyncLogs(ctx, synclogs.ListSyncLogsOptions{
		UpdateEventID: &eventID,
		Levels:        []string{models.SyncLogLevelError},
	})
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	s1 := f.getContent(t, "s1")
	require.NotNil(t, s1.Filename)
	assert.FileExists(t, filepath.Join(f.cfg.SoundsDir, *s1.Filename))

	memory, err := settings.NewService(f.db).RetrieveAppMemory(ctx)
	require.NoError(t, err)
	require.NotNil(t, memory.LastSyncStatus)
	assert.Equal(t, RunStatusPartial, *memory.LastSyncStatus)
}

func TestSync_FailedEventIsRetriedAndCheckpointCatchesUp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.feed.addSound("s1", "One", "a1")
	f.feed.addSound("s3", "Three", "a1")
	f.feed.soundErrs["s2"] = errcodes.FetchError(errors.New("HTTP 500"))
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeAdd, t0)
	f.feed.addEvent("e2", "s2", models.MediaTypeSound, models.EventTypeAdd, t0.Add(time.Minute))
	f.feed.addEvent("e3", "s3", models.MediaTypeSound, models.EventTypeAdd, t0.Add(2*time.Minute))

	_, err := f.engine.Sync(ctx)
	require.NoError(t, err)

	delete(f.feed.soundErrs, "s2")
	f.feed.addSound("s2", "Two", "a1")

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 2, result.Skipped)

	assert.NotNil(t, f.getContent(t, "s2"))
	retried := f.event(t, "e2")
	assert.Equal(t, models.UpdateEventStatusSucceeded, retried.Status())
	assert.Equal(t, 2, retried.Attempts)

	checkpoint := f.checkpoint(t)
	require.NotNil(t, checkpoint)
	assert.True(t, checkpoint.Equal(t0.Add(2*time.Minute)))
}

func TestSync_AbandonsAfterMaxAttempts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.cfg.SyncMaxEventAttempts = 2
	ctx := context.Background()

	f.feed.addSound("s1", "One", "a1")
	f.feed.soundErrs["s2"] = errcodes.FetchError(errors.New("HTTP 500"))
	f.feed.addEvent("e2", "s2", models.MediaTypeSound, models.EventTypeAdd, t0)
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeAdd, t0.Add(time.Minute))

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Nil(t, f.checkpoint(t))

	result, err = f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Abandoned)

	abandoned := f.event(t, "e2")
	assert.Equal(t, models.UpdateEventStatusFailed, abandoned.Status())
	assert.Equal(t, 2, abandoned.Attempts)

	checkpoint := f.checkpoint(t)
	require.NotNil(t, checkpoint)
	assert.True(t, checkpoint.Equal(t0.Add(time.Minute)), "checkpoint moves past an abandoned event")

	result, err = f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Fetched-result.Skipped)
	assert.Equal(t, 2, f.event(t, "e2").Attempts, "abandoned events are not attempted again")
}

func TestSync_IdempotentWithoutNewEvents(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.feed.addSound("s1", "One", "a1")
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeAdd, t0)

	_, err := f.engine.Sync(ctx)
	require.NoError(t, err)

	before := f.getContent(t, "s1")
	eventsBefore, err := NewEventService(f.db).CountEvents(ctx)
	require.NoError(t, err)

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, result.Fetched, result.Skipped)

	eventsAfter, err := NewEventService(f.db).CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, eventsBefore, eventsAfter)

	after := f.getContent(t, "s1")
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt), "content is not rewritten")
	assert.Equal(t, 1, f.event(t, "e1").Attempts)
	assert.Len(t, f.feed.downloads, 1)

	require.Len(t, f.feed.fetchedFrom, 2)
	assert.Nil(t, f.feed.fetchedFrom[0])
	require.NotNil(t, f.feed.fetchedFrom[1])
	assert.True(t, f.feed.fetchedFrom[1].Equal(t0))
}

func TestSync_FetchErrorLeavesStateUntouched(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.feed.fetchErr = errors.New("connection refused")

	_, err := f.engine.Sync(ctx)
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeFetchError))
	assert.Equal(t, StateFailed, f.engine.State())
	require.NotNil(t, f.engine.Status().LastError)

	count, err := NewEventService(f.db).CountEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Nil(t, f.checkpoint(t))

	memory, err := settings.NewService(f.db).RetrieveAppMemory(ctx)
	require.NoError(t, err)
	require.NotNil(t, memory.LastSyncStatus)
	assert.Equal(t, RunStatusFailed, *memory.LastSyncStatus)
}

func TestSync_FetchTimeout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.cfg.FetchTimeout = 20 * time.Millisecond

	f.feed.onFetch = func(ctx context.Context) {
		<-ctx.Done()
	}
	f.feed.fetchErr = context.DeadlineExceeded

	_, err := f.engine.Sync(context.Background())
	assert.True(t, errcodes.HasCode(err, errcodes.CodeFetchError))
	assert.Nil(t, f.checkpoint(t))
}

func TestSync_CancelledBetweenEvents(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.feed.addSound("s1", "One", "a1")
	f.feed.addSound("s2", "Two", "a1")
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeAdd, t0)
	f.feed.addEvent("e2", "s2", models.MediaTypeSound, models.EventTypeAdd, t0.Add(time.Minute))
	f.feed.onFetchSnd = func(ctx context.Context, id string) error {
		if id == "s2" {
			cancel()
			return ctx.Err()
		}
		return nil
	}

	_, err := f.engine.Sync(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, f.engine.State())

	assert.NotNil(t, f.getContent(t, "s1"))
	assert.Equal(t, models.UpdateEventStatusSucceeded, f.event(t, "e1").Status())
	pending := f.event(t, "e2")
	assert.Equal(t, models.UpdateEventStatusPending, pending.Status())
	assert.Zero(t, pending.Attempts)

	checkpoint := f.checkpoint(t)
	require.NotNil(t, checkpoint)
	assert.True(t, checkpoint.Equal(t0))
}

func TestSync_ModifyAndRemove(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.feed.addSound("s1", "One", "a1")
	f.feed.authors["a1"] = &models.Author{ID: "a1", Name: "First Name"}
	f.feed.genres["rock"] = &models.Genre{ID: "rock", Symbol: "guitar", Name: "Rock"}
	f.feed.addEvent("e1", "a1", models.MediaTypeAuthor, models.EventTypeAdd, t0)
	f.feed.addEvent("e2", "s1", models.MediaTypeSound, models.EventTypeAdd, t0.Add(time.Minute))
	f.feed.addEvent("e3", "rock", models.MediaTypeGenre, models.EventTypeAdd, t0.Add(2*time.Minute))

	_, err := f.engine.Sync(ctx)
	require.NoError(t, err)

	s1 := f.getContent(t, "s1")
	require.NotNil(t, s1)
	assert.Equal(t, "First Name", s1.Author.Name)

	folder := &models.UserFolder{Name: "Mine", Symbol: "star"}
	folderService := folders.NewService(f.db)
	require.NoError(t, folderService.CreateFolder(ctx, folder))
	_, err = folderService.AddContent(ctx, folder.ID, "s1")
	require.NoError(t, err)
	playlist := &models.Playlist{Name: "Road trip"}
	playlistService := playlists.NewService(f.db)
	require.NoError(t, playlistService.CreatePlaylist(ctx, playlist))
	_, err = playlistService.AddContent(ctx, playlist.ID, "s1")
	require.NoError(t, err)

	f.feed.mu.Lock()
	f.feed.sounds["s1"].IsOffensive = true
	f.feed.sounds["s1"].Title = "One (edited)"
	f.feed.authors["a1"].Name = "Second Name"
	f.feed.mu.Unlock()
	f.feed.addEvent("e4", "s1", models.MediaTypeSound, models.EventTypeModify, t0.Add(3*time.Minute))
	f.feed.addEvent("e5", "a1", models.MediaTypeAuthor, models.EventTypeModify, t0.Add(4*time.Minute))

	_, err = f.engine.Sync(ctx)
	require.NoError(t, err)

	s1 = f.getContent(t, "s1")
	assert.True(t, s1.IsOffensive)
	assert.Equal(t, "One (edited)", s1.Title)
	assert.Equal(t, "Second Name", s1.Author.Name)
	require.NotNil(t, s1.Filename, "modify keeps the downloaded file")

	folderBefore, err := folderService.RetrieveFolder(ctx, folder.ID)
	require.NoError(t, err)
	playlistBefore, err := playlistService.RetrievePlaylist(ctx, playlist.ID)
	require.NoError(t, err)

	f.feed.addEvent("e6", "s1", models.MediaTypeSound, models.EventTypeRemove, t0.Add(5*time.Minute))
	f.feed.addEvent("e7", "a1", models.MediaTypeAuthor, models.EventTypeRemove, t0.Add(6*time.Minute))
	f.feed.addEvent("e8", "gone", models.MediaTypeSound, models.EventTypeRemove, t0.Add(7*time.Minute))

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Failed)

	assert.Nil(t, f.getContent(t, "s1"))
	exists, err := folderService.Exists(ctx, folder.ID, "s1")
	require.NoError(t, err)
	assert.False(t, exists, "removing content removes its memberships")
	assert.Equal(t, models.UpdateEventStatusSucceeded, f.event(t, "e8").Status())

	folderAfter, err := folderService.RetrieveFolder(ctx, folder.ID)
	require.NoError(t, err)
	assert.Zero(t, folderAfter.ContentCount)
	assert.NotEqual(t, folderBefore.ChangeHash, folderAfter.ChangeHash)
	assert.Equal(t, folderBefore.Version+1, folderAfter.Version)

	playlistAfter, err := playlistService.RetrievePlaylist(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Zero(t, playlistAfter.ContentCount)
	assert.NotEqual(t, playlistBefore.ChangeHash, playlistAfter.ChangeHash)
}

func TestSync_ModifyOfUnknownSoundDownloadsIt(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.feed.addSound("s1", "One", "a1")
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeModify, t0)

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)

	s1 := f.getContent(t, "s1")
	require.NotNil(t, s1)
	require.NotNil(t, s1.Filename)
	assert.Equal(t, []string{"s1"}, f.feed.downloads)

	path, err := content.NewService(f.db, f.cfg.SoundsDir).ResolveFile(ctx, "s1")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSync_FailedDownloadWritesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.feed.addSound("s1", "One", "a1")
	f.feed.downloadErr["s1"] = errcodes.FetchError(errors.New("connection reset"))
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeAdd, t0)

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Nil(t, f.getContent(t, "s1"), "no metadata row without its audio")
	assert.Equal(t, models.UpdateEventStatusFailed, f.event(t, "e1").Status())

	f.feed.mu.Lock()
	delete(f.feed.downloadErr, "s1")
	f.feed.mu.Unlock()

	_, err = f.engine.Sync(ctx)
	require.NoError(t, err)
	s1 := f.getContent(t, "s1")
	require.NotNil(t, s1)
	require.NotNil(t, s1.Filename)
	assert.Len(t, f.feed.downloads, 2, "the retry repeats metadata and download")
}

func TestSync_FileUpdatedAndUnsupported(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	testutils.InsertSound(t, f.db, "s1", "Bundled", "a1")
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeFileUpdated, t0)
	f.feed.addEvent("e2", "x", "video", models.EventTypeAdd, t0.Add(time.Minute))

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Failed)

	s1 := f.getContent(t, "s1")
	require.NotNil(t, s1.Filename)
	data, err := os.ReadFile(filepath.Join(f.cfg.SoundsDir, *s1.Filename))
	require.NoError(t, err)
	assert.Equal(t, mp3Bytes, data)
}

func TestSync_UploadsShareLogs(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	testutils.InsertShare(t, f.db, "s1", t0)
	testutils.InsertShare(t, f.db, "s2", t0)

	result, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SharesUploaded)
	assert.Len(t, f.feed.posted, 2)

	unsent, err := sharelogs.NewService(f.db).ListUnsent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, unsent)

	testutils.InsertShare(t, f.db, "s3", t0)
	f.feed.postErr = errors.New("HTTP 503")

	result, err = f.engine.Sync(ctx)
	require.NoError(t, err, "a failed upload does not fail the run")
	assert.Zero(t, result.SharesUploaded)

	unsent, err = sharelogs.NewService(f.db).ListUnsent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, unsent, 1)
}

func TestSync_CoalescesConcurrentRuns(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.feed.onFetch = func(context.Context) {
		once.Do(func() { close(entered) })
		<-release
	}

	var wg sync.WaitGroup
	results := make([]*Result, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == 1 {
				<-entered
			}
			r, err := f.engine.Sync(context.Background())
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}

	<-entered
	assert.Equal(t, StateFetchingEvents, f.engine.State())

	_, err := f.engine.Retry(context.Background(), "anything")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeSyncInProgress))

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, f.feed.calls())
	assert.Same(t, results[0], results[1])
}

func TestRetry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.feed.soundErrs["s1"] = errcodes.FetchError(errors.New("HTTP 500"))
	f.feed.addEvent("e1", "s1", models.MediaTypeSound, models.EventTypeAdd, t0)

	_, err := f.engine.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UpdateEventStatusFailed, f.event(t, "e1").Status())

	delete(f.feed.soundErrs, "s1")
	f.feed.addSound("s1", "One", "a1")

	event, err := f.engine.Retry(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.UpdateEventStatusSucceeded, event.Status())
	assert.NotNil(t, f.getContent(t, "s1"))

	_, err = f.engine.Retry(ctx, "missing")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}
