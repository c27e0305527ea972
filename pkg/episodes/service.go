package episodes

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/htmlutil"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// finishedThreshold is how close to the end playback has to get for an
// episode to count as finished.
const finishedThreshold = 0.95

type ListEpisodesOptions struct {
	Limit     *int
	Offset    *int
	PodcastID *string

	includeTotal bool
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) UpsertEpisode(ctx context.Context, episode *models.Episode) error {
	if episode.CreatedAt.IsZero() {
		episode.CreatedAt = time.Now()
	}
	if episode.Description != nil {
		plain := htmlutil.StripTags(*episode.Description)
		episode.Description = &plain
	}

	_, err := svc.db.
		NewInsert().
		Model(episode).
		On("CONFLICT (id) DO UPDATE").
		Set("podcast_id = EXCLUDED.podcast_id").
		Set("title = EXCLUDED.title").
		Set("description = EXCLUDED.description").
		Set("pub_date = EXCLUDED.pub_date").
		Set("duration = EXCLUDED.duration").
		Set("remote_url = EXCLUDED.remote_url").
		Set("is_explicit = EXCLUDED.is_explicit").
		Exec(ctx)
	return database.ClassifyError(err, "Episode")
}

func (svc *Service) RetrieveEpisode(ctx context.Context, id string) (*models.Episode, error) {
	episode := &models.Episode{}

	err := svc.db.
		NewSelect().
		Model(episode).
		Relation("Progress").
		Where("e.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Episode")
		}
		return nil, errors.WithStack(err)
	}
	return episode, nil
}

func (svc *Service) ListEpisodes(ctx context.Context, opts ListEpisodesOptions) ([]*models.Episode, error) {
	e, _, err := svc.listEpisodesWithTotal(ctx, opts)
	return e, errors.WithStack(err)
}

func (svc *Service) ListEpisodesWithTotal(ctx context.Context, opts ListEpisodesOptions) ([]*models.Episode, int, error) {
	opts.includeTotal = true
	return svc.listEpisodesWithTotal(ctx, opts)
}

func (svc *Service) listEpisodesWithTotal(ctx context.Context, opts ListEpisodesOptions) ([]*models.Episode, int, error) {
	var episodes []*models.Episode
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&episodes).
		Relation("Progress").
		Order("e.pub_date DESC", "e.id ASC")

	if opts.PodcastID != nil {
		q = q.Where("e.podcast_id = ?", *opts.PodcastID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return episodes, total, nil
}

func (svc *Service) DeleteEpisode(ctx context.Context, id string) error {
	res, err := svc.db.NewDelete().
		Model((*models.Episode)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Episode")
	}
	return nil
}

func (svc *Service) CreateBookmark(ctx context.Context, bookmark *models.EpisodeBookmark) error {
	if _, err := svc.RetrieveEpisode(ctx, bookmark.EpisodeID); err != nil {
		return err
	}
	if bookmark.ID == "" {
		bookmark.ID = uuid.NewString()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now()
	}

	_, err := svc.db.NewInsert().Model(bookmark).Exec(ctx)
	return database.ClassifyError(err, "Bookmark")
}

// ListBookmarks returns the bookmarks of an episode in playback order.
func (svc *Service) ListBookmarks(ctx context.Context, episodeID string) ([]*models.EpisodeBookmark, error) {
	var bookmarks []*models.EpisodeBookmark
	err := svc.db.NewSelect().
		Model(&bookmarks).
		Where("eb.episode_id = ?", episodeID).
		Order("eb.timestamp_seconds ASC", "eb.created_at ASC").
		Scan(ctx)
	return bookmarks, errors.WithStack(err)
}

func (svc *Service) DeleteBookmark(ctx context.Context, id string) error {
	res, err := svc.db.NewDelete().
		Model((*models.EpisodeBookmark)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Bookmark")
	}
	return nil
}

// SaveProgress records how far playback got. An episode is finished once the
// position crosses the finished threshold and stays finished afterwards.
func (svc *Service) SaveProgress(ctx context.Context, episodeID string, current, duration float64) (*models.EpisodeProgress, error) {
	if _, err := svc.RetrieveEpisode(ctx, episodeID); err != nil {
		return nil, err
	}

	progress := &models.EpisodeProgress{
		EpisodeID:       episodeID,
		CurrentSeconds:  current,
		DurationSeconds: duration,
		HasFinished:     duration > 0 && current >= duration*finishedThreshold,
		UpdatedAt:       time.Now(),
	}

	_, err := svc.db.NewInsert().
		Model(progress).
		On("CONFLICT (episode_id) DO UPDATE").
		Set("current_seconds = EXCLUDED.current_seconds").
		Set("duration_seconds = EXCLUDED.duration_seconds").
		Set("has_finished = MAX(has_finished, EXCLUDED.has_finished)").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, database.ClassifyError(err, "Episode progress")
	}

	return svc.RetrieveProgress(ctx, episodeID)
}

func (svc *Service) RetrieveProgress(ctx context.Context, episodeID string) (*models.EpisodeProgress, error) {
	progress := &models.EpisodeProgress{}
	err := svc.db.NewSelect().
		Model(progress).
		Where("ep.episode_id = ?", episodeID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Episode progress")
		}
		return nil, errors.WithStack(err)
	}
	return progress, nil
}
