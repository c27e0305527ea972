package pinned

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// Pin puts contentID at the end of the pinned list. Pinning content twice
// returns the existing item.
func (svc *Service) Pin(ctx context.Context, contentID string) (*models.PinnedItem, error) {
	item := &models.PinnedItem{}
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

		err = tx.NewSelect().
			Model(item).
			Where("pi.content_id = ?", contentID).
			Scan(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return errors.WithStack(err)
		}

		var next int
		err = tx.NewSelect().
			Model((*models.PinnedItem)(nil)).
			ColumnExpr("COALESCE(MAX(position) + 1, 0)").
			Scan(ctx, &next)
		if err != nil {
			return errors.WithStack(err)
		}

		*item = models.PinnedItem{
			ID:        uuid.NewString(),
			ContentID: contentID,
			Position:  next,
			AddedAt:   time.Now(),
		}
		_, err = tx.NewInsert().Model(item).Exec(ctx)
		return database.ClassifyError(err, "Pinned item")
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Unpin removes contentID from the pinned list and closes the gap.
func (svc *Service) Unpin(ctx context.Context, contentID string) (bool, error) {
	removed := false
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		item := &models.PinnedItem{}
		err := tx.NewSelect().
			Model(item).
			Where("pi.content_id = ?", contentID).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().Model(item).WherePK().Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		removed = true

		_, err = tx.NewUpdate().
			Model((*models.PinnedItem)(nil)).
			Set("position = position - 1").
			Where("position > ?", item.Position).
			Exec(ctx)
		return errors.WithStack(err)
	})
	return removed, err
}

// List returns pinned items in position order with their content.
func (svc *Service) List(ctx context.Context) ([]*models.PinnedItem, error) {
	var items []*models.PinnedItem
	err := svc.db.NewSelect().
		Model(&items).
		Relation("Content").
		Relation("Content.Author").
		OrderExpr("pi.position ASC").
		Scan(ctx)
	return items, errors.WithStack(err)
}
