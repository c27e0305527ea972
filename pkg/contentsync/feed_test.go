package contentsync

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
)

var mp3Bytes = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x0f"), make([]byte, 64)...)

// fakeFeed is an in-memory content server.
type fakeFeed struct {
	mu sync.Mutex

	events  []*models.UpdateEvent
	sounds  map[string]*models.Content
	songs   map[string]*models.Content
	authors map[string]*models.Author
	genres  map[string]*models.Genre

	fetchErr    error
	soundErrs   map[string]error
	downloadErr map[string]error
	postErr     error
	fetchCalls  int
	downloads   []string
	posted      []*models.ShareLog
	onFetch     func(ctx context.Context)
	onFetchSnd  func(ctx context.Context, id string) error
	fetchedFrom []*time.Time
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		sounds:    map[string]*models.Content{},
		songs:     map[string]*models.Content{},
		authors:   map[string]*models.Author{},
		genres:    map[string]*models.Genre{},
		soundErrs: map[string]error{},

		downloadErr: map[string]error{},
	}
}

func (f *fakeFeed) addEvent(id, contentID, mediaType, eventType string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, &models.UpdateEvent{
		ID:        id,
		ContentID: contentID,
		DateTime:  at,
		MediaType: mediaType,
		EventType: eventType,
	})
}

func (f *fakeFeed) addSound(id, title, authorID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sounds[id] = &models.Content{
		ID:           id,
		ContentType:  models.ContentTypeSound,
		Title:        title,
		AuthorID:     &authorID,
		Duration:     3,
		IsFromServer: true,
		DateAdded:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeFeed) FetchUpdateEvents(ctx context.Context, since *time.Time) ([]*models.UpdateEvent, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.fetchedFrom = append(f.fetchedFrom, since)
	hook := f.onFetch
	f.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := []*models.UpdateEvent{}
	for _, e := range f.events {
		if since != nil && e.DateTime.Before(*since) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeFeed) FetchSound(ctx context.Context, id string) (*models.Content, error) {
	if f.onFetchSnd != nil {
		if err := f.onFetchSnd(ctx, id); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.soundErrs[id]; err != nil {
		return nil, err
	}
	c, ok := f.sounds[id]
	if !ok {
		return nil, errcodes.FetchError(errors.Errorf("sound %s: HTTP 404", id))
	}
	cp := *c
	return &cp, nil
}

func (f *fakeFeed) FetchSong(_ context.Context, id string) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.songs[id]
	if !ok {
		return nil, errcodes.FetchError(errors.Errorf("song %s: HTTP 404", id))
	}
	cp := *c
	return &cp, nil
}

func (f *fakeFeed) FetchAuthor(_ context.Context, id string) (*models.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.authors[id]
	if !ok {
		return nil, errcodes.FetchError(errors.Errorf("author %s: HTTP 404", id))
	}
	cp := *a
	return &cp, nil
}

func (f *fakeFeed) FetchGenre(_ context.Context, id string) (*models.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.genres[id]
	if !ok {
		return nil, errcodes.FetchError(errors.Errorf("genre %s: HTTP 404", id))
	}
	cp := *g
	return &cp, nil
}

func (f *fakeFeed) DownloadSound(_ context.Context, id, dest string) error {
	f.mu.Lock()
	f.downloads = append(f.downloads, id)
	err := f.downloadErr[id]
	f.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, mp3Bytes, 0o644)
}

func (f *fakeFeed) PostShareLogs(_ context.Context, logs []*models.ShareLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return f.postErr
	}
	f.posted = append(f.posted, logs...)
	return nil
}

func (f *fakeFeed) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}
