package genres

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListGenresOptions struct {
	IncludeHidden bool
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateGenre(ctx context.Context, genre *models.Genre) error {
	now := time.Now()
	if genre.CreatedAt.IsZero() {
		genre.CreatedAt = now
	}
	genre.UpdatedAt = genre.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(genre).
		Exec(ctx)
	return database.ClassifyError(err, "Genre")
}

// UpsertGenre inserts the genre or overwrites the stored one with the same id.
func (svc *Service) UpsertGenre(ctx context.Context, genre *models.Genre) error {
	now := time.Now()
	if genre.CreatedAt.IsZero() {
		genre.CreatedAt = now
	}
	genre.UpdatedAt = now

	_, err := svc.db.
		NewInsert().
		Model(genre).
		On("CONFLICT (id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("symbol = EXCLUDED.symbol").
		Set("name = EXCLUDED.name").
		Set("is_hidden = EXCLUDED.is_hidden").
		Exec(ctx)
	return database.ClassifyError(err, "Genre")
}

func (svc *Service) RetrieveGenre(ctx context.Context, id string) (*models.Genre, error) {
	genre := &models.Genre{}

	err := svc.db.
		NewSelect().
		Model(genre).
		ColumnExpr("g.*").
		ColumnExpr("(SELECT COUNT(*) FROM content c WHERE c.genre_id = g.id) AS song_count").
		Where("g.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Genre")
		}
		return nil, errors.WithStack(err)
	}

	return genre, nil
}

func (svc *Service) ListGenres(ctx context.Context, opts ListGenresOptions) ([]*models.Genre, error) {
	var genres []*models.Genre

	q := svc.db.
		NewSelect().
		Model(&genres).
		ColumnExpr("g.*").
		ColumnExpr("(SELECT COUNT(*) FROM content c WHERE c.genre_id = g.id) AS song_count").
		OrderExpr("g.name COLLATE NOCASE ASC, g.id ASC")
	if !opts.IncludeHidden {
		q = q.Where("g.is_hidden = FALSE")
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return genres, nil
}

func (svc *Service) DeleteGenre(ctx context.Context, id string) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Genre)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Genre")
	}
	return nil
}
