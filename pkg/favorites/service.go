package favorites

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

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// Add marks contentID as a favorite. Reports false when it already was one.
func (svc *Service) Add(ctx context.Context, contentID string) (bool, error) {
	added := false
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Content)(nil)).
			Where("c.id = ?", contentID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Content")
		}

		res, err := tx.NewInsert().
			Model(&models.Favorite{ContentID: contentID, DateAdded: time.Now()}).
			On("CONFLICT (content_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return database.ClassifyError(err, "Favorite")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		added = n > 0
		return nil
	})
	return added, err
}

func (svc *Service) Remove(ctx context.Context, contentID string) (bool, error) {
	res, err := svc.db.NewDelete().
		Model((*models.Favorite)(nil)).
		Where("content_id = ?", contentID).
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	return n > 0, errors.WithStack(err)
}

func (svc *Service) Exists(ctx context.Context, contentID string) (bool, error) {
	exists, err := svc.db.NewSelect().
		Model((*models.Favorite)(nil)).
		Where("f.content_id = ?", contentID).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

// List returns favorited content, most recently favorited first.
func (svc *Service) List(ctx context.Context) ([]*models.Content, error) {
	var contents []*models.Content
	err := svc.db.NewSelect().
		Model(&contents).
		Relation("Author").
		Join("JOIN favorites AS f ON f.content_id = c.id").
		OrderExpr("f.date_added DESC, c.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, c := range contents {
		if c.ContentType == models.ContentTypeSound && c.Author == nil {
			c.Author = models.UnknownAuthor()
		}
	}
	return contents, nil
}
