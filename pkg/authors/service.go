package authors

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListAuthorsOptions struct {
	Limit  *int
	Offset *int
	Search *string

	includeTotal bool
}

type UpdateAuthorOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateAuthor(ctx context.Context, author *models.Author) error {
	now := time.Now()
	if author.CreatedAt.IsZero() {
		author.CreatedAt = now
	}
	author.UpdatedAt = author.CreatedAt
	if err := author.MarshalLinks(); err != nil {
		return err
	}

	_, err := svc.db.
		NewInsert().
		Model(author).
		Exec(ctx)
	return database.ClassifyError(err, "Author")
}

// UpsertAuthor inserts the author or overwrites the stored one with the same
// id.
func (svc *Service) UpsertAuthor(ctx context.Context, author *models.Author) error {
	now := time.Now()
	if author.CreatedAt.IsZero() {
		author.CreatedAt = now
	}
	author.UpdatedAt = now
	if err := author.MarshalLinks(); err != nil {
		return err
	}

	_, err := svc.db.
		NewInsert().
		Model(author).
		On("CONFLICT (id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("name = EXCLUDED.name").
		Set("photo = EXCLUDED.photo").
		Set("description = EXCLUDED.description").
		Set("external_links = EXCLUDED.external_links").
		Exec(ctx)
	return database.ClassifyError(err, "Author")
}

func (svc *Service) RetrieveAuthor(ctx context.Context, id string) (*models.Author, error) {
	author := &models.Author{}

	err := svc.db.
		NewSelect().
		Model(author).
		ColumnExpr("a.*").
		ColumnExpr("(SELECT COUNT(*) FROM content c WHERE c.author_id = a.id) AS sound_count").
		Where("a.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Author")
		}
		return nil, errors.WithStack(err)
	}

	if err := author.UnmarshalLinks(); err != nil {
		return nil, err
	}
	return author, nil
}

// RetrieveOrUnknown never fails on a missing author: content may reference
// authors the store has never seen, and those render as a placeholder.
func (svc *Service) RetrieveOrUnknown(ctx context.Context, id *string) (*models.Author, error) {
	if id == nil {
		return models.UnknownAuthor(), nil
	}
	author, err := svc.RetrieveAuthor(ctx, *id)
	if errcodes.HasCode(err, errcodes.CodeNotFound) {
		return models.UnknownAuthor(), nil
	}
	return author, err
}

func (svc *Service) ListAuthors(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, error) {
	a, _, err := svc.listAuthorsWithTotal(ctx, opts)
	return a, errors.WithStack(err)
}

func (svc *Service) ListAuthorsWithTotal(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	opts.includeTotal = true
	return svc.listAuthorsWithTotal(ctx, opts)
}

func (svc *Service) listAuthorsWithTotal(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	var authors []*models.Author
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&authors).
		ColumnExpr("a.*").
		ColumnExpr("(SELECT COUNT(*) FROM content c WHERE c.author_id = a.id) AS sound_count").
		OrderExpr("a.name COLLATE NOCASE ASC, a.id ASC")

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("LOWER(a.name) LIKE ?", "%"+strings.ToLower(*opts.Search)+"%")
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

	for _, a := range authors {
		if err := a.UnmarshalLinks(); err != nil {
			return nil, 0, err
		}
	}
	return authors, total, nil
}

func (svc *Service) CountAuthors(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().Model((*models.Author)(nil)).Count(ctx)
	return count, errors.WithStack(err)
}

func (svc *Service) UpdateAuthor(ctx context.Context, author *models.Author, opts UpdateAuthorOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	author.UpdatedAt = time.Now()
	if err := author.MarshalLinks(); err != nil {
		return err
	}
	columns := append(append([]string{}, opts.Columns...), "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(author).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return database.ClassifyError(err, "Author")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Author")
	}
	return nil
}

// DeleteAuthor removes the author. Sounds keep their author_id and fall back
// to the unknown author placeholder.
func (svc *Service) DeleteAuthor(ctx context.Context, id string) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Author)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Author")
	}
	return nil
}
