package contentsync

import (
	"context"
	"time"

	"github.com/clipdeck/clipdeck/pkg/models"
)

// Feed is the content server as seen by the engine.
type Feed interface {
	// FetchUpdateEvents returns events at or after since, in server order.
	FetchUpdateEvents(ctx context.Context, since *time.Time) ([]*models.UpdateEvent, error)
	FetchSound(ctx context.Context, id string) (*models.Content, error)
	FetchSong(ctx context.Context, id string) (*models.Content, error)
	FetchAuthor(ctx context.Context, id string) (*models.Author, error)
	FetchGenre(ctx context.Context, id string) (*models.Genre, error)
	DownloadSound(ctx context.Context, id, dest string) error
	PostShareLogs(ctx context.Context, logs []*models.ShareLog) error
}
