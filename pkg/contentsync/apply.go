package contentsync

import (
	"context"
	"path/filepath"

	"github.com/clipdeck/clipdeck/pkg/authors"
	"github.com/clipdeck/clipdeck/pkg/content"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/genres"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// prepared is what the server told us about one event. Everything that needs
// the network happens while preparing so the local write never waits on it.
type prepared struct {
	content  *models.Content
	author   *models.Author
	genre    *models.Genre
	filename *string
}

func soundFilename(id string) string {
	return filepath.Base(id) + ".mp3"
}

func unsupported(event *models.UpdateEvent) error {
	return errors.Errorf("unsupported %q event for media type %q", event.EventType, event.MediaType)
}

func (e *Engine) prepare(ctx context.Context, event *models.UpdateEvent) (*prepared, error) {
	ctx, cancel := e.fetchContext(ctx)
	defer cancel()

	p := &prepared{}
	var err error

	switch event.MediaType {
	case models.MediaTypeSound:
		switch event.EventType {
		case models.EventTypeAdd, models.EventTypeModify:
			p.content, err = e.feed.FetchSound(ctx, event.ContentID)
			if err != nil {
				return p, err
			}
			if event.EventType == models.EventTypeModify {
				var playable bool
				playable, err = e.hasAudio(ctx, event.ContentID)
				if err != nil || playable {
					return p, err
				}
			}
			p.content.Filename, err = e.download(ctx, event.ContentID)
		case models.EventTypeFileUpdated:
			p.filename, err = e.download(ctx, event.ContentID)
		case models.EventTypeRemove:
		default:
			err = unsupported(event)
		}
	case models.MediaTypeSong:
		switch event.EventType {
		case models.EventTypeAdd, models.EventTypeModify:
			p.content, err = e.feed.FetchSong(ctx, event.ContentID)
		case models.EventTypeRemove:
		default:
			err = unsupported(event)
		}
	case models.MediaTypeAuthor:
		switch event.EventType {
		case models.EventTypeAdd, models.EventTypeModify:
			p.author, err = e.feed.FetchAuthor(ctx, event.ContentID)
		case models.EventTypeRemove:
		default:
			err = unsupported(event)
		}
	case models.MediaTypeGenre:
		switch event.EventType {
		case models.EventTypeAdd, models.EventTypeModify:
			p.genre, err = e.feed.FetchGenre(ctx, event.ContentID)
		case models.EventTypeRemove:
		default:
			err = unsupported(event)
		}
	default:
		err = unsupported(event)
	}

	return p, err
}

// hasAudio reports whether sound id is stored with an audio file. A modify
// for a sound without one is applied like an add.
func (e *Engine) hasAudio(ctx context.Context, id string) (bool, error) {
	c, err := content.NewService(e.db, e.cfg.SoundsDir).GetContent(ctx, id)
	if err != nil {
		return false, err
	}
	return c != nil && c.Filename != nil, nil
}

func (e *Engine) download(ctx context.Context, id string) (*string, error) {
	filename := soundFilename(id)
	if err := e.feed.DownloadSound(ctx, id, filepath.Join(e.cfg.SoundsDir, filename)); err != nil {
		return nil, err
	}
	return &filename, nil
}

// commit writes a prepared event through services bound to tx.
func (e *Engine) commit(ctx context.Context, tx bun.Tx, event *models.UpdateEvent, p *prepared) error {
	switch event.MediaType {
	case models.MediaTypeSound, models.MediaTypeSong:
		contentService := content.NewService(tx, e.cfg.SoundsDir)
		switch event.EventType {
		case models.EventTypeAdd, models.EventTypeModify:
			if p.content.ID != event.ContentID {
				return errors.Errorf("server returned content %q for event about %q", p.content.ID, event.ContentID)
			}
			return contentService.UpsertContent(ctx, p.content)
		case models.EventTypeFileUpdated:
			c, err := contentService.RetrieveContent(ctx, event.ContentID)
			if err != nil {
				return err
			}
			c.Filename = p.filename
			return contentService.UpdateContent(ctx, c, content.UpdateContentOptions{Columns: []string{"filename"}})
		case models.EventTypeRemove:
			return ignoreNotFound(contentService.DeleteContent(ctx, event.ContentID))
		}
	case models.MediaTypeAuthor:
		authorService := authors.NewService(tx)
		if event.EventType == models.EventTypeRemove {
			return ignoreNotFound(authorService.DeleteAuthor(ctx, event.ContentID))
		}
		return authorService.UpsertAuthor(ctx, p.author)
	case models.MediaTypeGenre:
		genreService := genres.NewService(tx)
		if event.EventType == models.EventTypeRemove {
			return ignoreNotFound(genreService.DeleteGenre(ctx, event.ContentID))
		}
		return genreService.UpsertGenre(ctx, p.genre)
	}
	return unsupported(event)
}

// Removing something that is already gone is a success.
func ignoreNotFound(err error) error {
	if errcodes.HasCode(err, errcodes.CodeNotFound) {
		return nil
	}
	return err
}
