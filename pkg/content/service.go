package content

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/folders"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/playlists"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListContentOptions struct {
	ContentType      *string
	AuthorID         *string
	GenreID          *string
	Search           *string
	IncludeOffensive bool
	Sort             string
	Limit            *int
	Offset           *int

	includeTotal bool
}

type UpdateContentOptions struct {
	Columns []string
}

type Service struct {
	db        bun.IDB
	soundsDir string
}

// NewService returns a content service on db, which may be a transaction.
// soundsDir is where downloaded audio files live.
func NewService(db bun.IDB, soundsDir string) *Service {
	return &Service{db, soundsDir}
}

func resourceName(contentType string) string {
	switch contentType {
	case models.ContentTypeSong:
		return "Song"
	case models.ContentTypeEpisode:
		return "Episode"
	default:
		return "Sound"
	}
}

// SearchText is the normalized text content is matched against.
func SearchText(c *models.Content) string {
	return strings.ToLower(strings.TrimSpace(c.Title + " " + c.Description))
}

// CreateContent inserts a new sound or song. It fails with DuplicateKey when
// the id is already taken.
func (svc *Service) CreateContent(ctx context.Context, c *models.Content) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.DateAdded.IsZero() {
		c.DateAdded = c.CreatedAt
	}
	c.UpdatedAt = c.CreatedAt
	st := SearchText(c)
	c.SearchText = &st

	_, err := svc.db.
		NewInsert().
		Model(c).
		Exec(ctx)
	return database.ClassifyError(err, resourceName(c.ContentType))
}

// UpsertContent inserts c or overwrites the server-owned fields of the stored
// row with the same id. A nil filename keeps the stored one.
func (svc *Service) UpsertContent(ctx context.Context, c *models.Content) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.DateAdded.IsZero() {
		c.DateAdded = c.CreatedAt
	}
	c.UpdatedAt = now
	st := SearchText(c)
	c.SearchText = &st

	_, err := svc.db.
		NewInsert().
		Model(c).
		On("CONFLICT (id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("title = EXCLUDED.title").
		Set("description = EXCLUDED.description").
		Set("search_text = EXCLUDED.search_text").
		Set("author_id = EXCLUDED.author_id").
		Set("genre_id = EXCLUDED.genre_id").
		Set("duration = EXCLUDED.duration").
		Set("is_offensive = EXCLUDED.is_offensive").
		Set("is_from_server = EXCLUDED.is_from_server").
		Set("filename = COALESCE(EXCLUDED.filename, filename)").
		Exec(ctx)
	return database.ClassifyError(err, resourceName(c.ContentType))
}

// GetContent returns nil without an error when the id is unknown.
func (svc *Service) GetContent(ctx context.Context, id string) (*models.Content, error) {
	c, err := svc.RetrieveContent(ctx, id)
	if errcodes.HasCode(err, errcodes.CodeNotFound) {
		return nil, nil
	}
	return c, err
}

func (svc *Service) RetrieveContent(ctx context.Context, id string) (*models.Content, error) {
	c := &models.Content{}

	err := svc.db.
		NewSelect().
		Model(c).
		Relation("Author").
		Relation("Genre").
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Content")
		}
		return nil, errors.WithStack(err)
	}

	fillUnknownAuthor(c)
	return c, nil
}

func (svc *Service) ListContent(ctx context.Context, opts ListContentOptions) ([]*models.Content, error) {
	c, _, err := svc.listContentWithTotal(ctx, opts)
	return c, errors.WithStack(err)
}

func (svc *Service) ListContentWithTotal(ctx context.Context, opts ListContentOptions) ([]*models.Content, int, error) {
	opts.includeTotal = true
	return svc.listContentWithTotal(ctx, opts)
}

func (svc *Service) listContentWithTotal(ctx context.Context, opts ListContentOptions) ([]*models.Content, int, error) {
	var contents []*models.Content
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&contents).
		Relation("Author").
		Relation("Genre")

	if opts.ContentType != nil {
		q = q.Where("c.content_type = ?", *opts.ContentType)
	}
	if opts.AuthorID != nil {
		q = q.Where("c.author_id = ?", *opts.AuthorID)
	}
	if opts.GenreID != nil {
		q = q.Where("c.genre_id = ?", *opts.GenreID)
	}
	if !opts.IncludeOffensive {
		q = q.Where("c.is_offensive = FALSE")
	}
	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(*opts.Search)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("c.search_text LIKE ?", term).
				WhereOr("LOWER(author.name) LIKE ?", term)
		})
	}

	switch opts.Sort {
	case models.ContentSortTitleAsc:
		q = q.OrderExpr("c.title COLLATE NOCASE ASC, c.id ASC")
	case models.ContentSortAuthorAsc:
		q = q.OrderExpr("author.name COLLATE NOCASE ASC, c.title COLLATE NOCASE ASC, c.id ASC")
	case models.ContentSortShareCount:
		q = q.OrderExpr("(SELECT COUNT(*) FROM share_logs sl WHERE sl.content_id = c.id) DESC, c.id ASC")
	default:
		q = q.OrderExpr("c.date_added DESC, c.id ASC")
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

	for _, c := range contents {
		fillUnknownAuthor(c)
	}
	return contents, total, nil
}

// CountContent counts sounds and songs, optionally of one type.
func (svc *Service) CountContent(ctx context.Context, contentType *string) (int, error) {
	q := svc.db.
		NewSelect().
		Model((*models.Content)(nil))
	if contentType != nil {
		q = q.Where("c.content_type = ?", *contentType)
	}
	count, err := q.Count(ctx)
	return count, errors.WithStack(err)
}

// UpdateContent writes the given columns. Only author linkage, the offensive
// flag and server-owned metadata are expected to change after insert.
func (svc *Service) UpdateContent(ctx context.Context, c *models.Content, opts UpdateContentOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	c.UpdatedAt = time.Now()
	columns := append(append([]string{}, opts.Columns...), "updated_at")
	for _, col := range opts.Columns {
		if col == "title" || col == "description" {
			st := SearchText(c)
			c.SearchText = &st
			columns = append(columns, "search_text")
			break
		}
	}

	res, err := svc.db.
		NewUpdate().
		Model(c).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return database.ClassifyError(err, resourceName(c.ContentType))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound(resourceName(c.ContentType))
	}
	return nil
}

// DeleteContent removes the content row and every folder, playlist, favorite
// and pinned membership pointing at it. Folders and playlists that lost a
// member get a new change hash.
func (svc *Service) DeleteContent(ctx context.Context, id string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		folderIDs, err := folders.ContainingContent(ctx, tx, id)
		if err != nil {
			return err
		}
		playlistIDs, err := playlists.ContainingContent(ctx, tx, id)
		if err != nil {
			return err
		}

		cascades := []interface{}{
			(*models.UserFolderContent)(nil),
			(*models.PlaylistContent)(nil),
			(*models.Favorite)(nil),
			(*models.PinnedItem)(nil),
		}
		for _, model := range cascades {
			_, err := tx.NewDelete().
				Model(model).
				Where("content_id = ?", id).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		for _, folderID := range folderIDs {
			if err := folders.RefreshChangeHash(ctx, tx, folderID); err != nil {
				return err
			}
		}
		for _, playlistID := range playlistIDs {
			if err := playlists.RefreshChangeHash(ctx, tx, playlistID); err != nil {
				return err
			}
		}

		res, err := tx.NewDelete().
			Model((*models.Content)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Content")
		}
		return nil
	})
}

// FilePath is where the audio file for c is stored.
func (svc *Service) FilePath(c *models.Content) string {
	if c.Filename == nil {
		return ""
	}
	return filepath.Join(svc.soundsDir, filepath.Base(*c.Filename))
}

// ResolveFile returns the path of the audio file backing id. A missing file
// is FileNotFound, which is a content problem and not a store failure.
func (svc *Service) ResolveFile(ctx context.Context, id string) (string, error) {
	c, err := svc.RetrieveContent(ctx, id)
	if err != nil {
		return "", err
	}
	path := svc.FilePath(c)
	if path == "" {
		return "", errcodes.FileNotFound(resourceName(c.ContentType))
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", errcodes.FileNotFound(resourceName(c.ContentType))
	}
	return path, nil
}

func fillUnknownAuthor(c *models.Content) {
	if c.ContentType == models.ContentTypeSound && c.Author == nil {
		c.Author = models.UnknownAuthor()
	}
}
