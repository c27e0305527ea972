package folders

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

type UpdateFolderOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func folderMetadata(f *models.UserFolder) []string {
	return []string{f.Symbol, f.Name, f.BackgroundColor, f.SortPreference}
}

func (svc *Service) CreateFolder(ctx context.Context, folder *models.UserFolder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	now := time.Now()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	folder.UpdatedAt = folder.CreatedAt
	if folder.SortPreference == "" {
		folder.SortPreference = models.FolderSortDateAddedDesc
	}
	folder.Version = 1
	folder.ChangeHash = models.ComputeChangeHash(folderMetadata(folder), nil, false)

	_, err := svc.db.
		NewInsert().
		Model(folder).
		Exec(ctx)
	return database.ClassifyError(err, "Folder")
}

func (svc *Service) RetrieveFolder(ctx context.Context, id string) (*models.UserFolder, error) {
	folder := &models.UserFolder{}

	err := svc.db.
		NewSelect().
		Model(folder).
		ColumnExpr("uf.*").
		ColumnExpr("(SELECT COUNT(*) FROM user_folder_contents ufc WHERE ufc.user_folder_id = uf.id) AS content_count").
		Where("uf.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Folder")
		}
		return nil, errors.WithStack(err)
	}
	return folder, nil
}

func (svc *Service) ListFolders(ctx context.Context) ([]*models.UserFolder, error) {
	var folders []*models.UserFolder

	err := svc.db.
		NewSelect().
		Model(&folders).
		ColumnExpr("uf.*").
		ColumnExpr("(SELECT COUNT(*) FROM user_folder_contents ufc WHERE ufc.user_folder_id = uf.id) AS content_count").
		OrderExpr("uf.name COLLATE NOCASE ASC, uf.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return folders, nil
}

func (svc *Service) CountFolders(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().Model((*models.UserFolder)(nil)).Count(ctx)
	return count, errors.WithStack(err)
}

// UpdateFolder writes the given metadata columns and refreshes the change
// hash and version.
func (svc *Service) UpdateFolder(ctx context.Context, folder *models.UserFolder, opts UpdateFolderOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		folder.UpdatedAt = time.Now()
		columns := append(append([]string{}, opts.Columns...), "updated_at")

		res, err := tx.
			NewUpdate().
			Model(folder).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return database.ClassifyError(err, "Folder")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Folder")
		}

		return RefreshChangeHash(ctx, tx, folder.ID)
	})
}

func (svc *Service) DeleteFolder(ctx context.Context, id string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.UserFolderContent)(nil)).
			Where("user_folder_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.UserFolder)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Folder")
		}
		return nil
	})
}

// Exists reports whether contentID is in the folder.
func (svc *Service) Exists(ctx context.Context, folderID, contentID string) (bool, error) {
	return membershipExists(ctx, svc.db, folderID, contentID)
}

func membershipExists(ctx context.Context, db bun.IDB, folderID, contentID string) (bool, error) {
	exists, err := db.NewSelect().
		Model((*models.UserFolderContent)(nil)).
		Where("ufc.user_folder_id = ?", folderID).
		Where("ufc.content_id = ?", contentID).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

// AddContent puts contentID in the folder. Adding content that is already
// there is a no-op and reports false.
func (svc *Service) AddContent(ctx context.Context, folderID, contentID string) (bool, error) {
	added := false
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.UserFolder)(nil)).
			Where("uf.id = ?", folderID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Folder")
		}

		exists, err = tx.NewSelect().
			Model((*models.Content)(nil)).
			Where("c.id = ?", contentID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Content")
		}

		member, err := membershipExists(ctx, tx, folderID, contentID)
		if err != nil || member {
			return err
		}

		_, err = tx.NewInsert().
			Model(&models.UserFolderContent{
				UserFolderID: folderID,
				ContentID:    contentID,
				DateAdded:    time.Now(),
			}).
			Exec(ctx)
		if err != nil {
			return database.ClassifyError(err, "Folder content")
		}
		added = true

		return RefreshChangeHash(ctx, tx, folderID)
	})
	return added, err
}

// RemoveContent takes contentID out of the folder. Removing content that is
// not there is a no-op and reports false.
func (svc *Service) RemoveContent(ctx context.Context, folderID, contentID string) (bool, error) {
	removed := false
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.UserFolderContent)(nil)).
			Where("user_folder_id = ?", folderID).
			Where("content_id = ?", contentID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return errors.WithStack(err)
		}
		removed = true

		return RefreshChangeHash(ctx, tx, folderID)
	})
	return removed, err
}

// ListContents returns the folder's content in the folder's sort order. Rows
// whose content no longer exists are skipped.
func (svc *Service) ListContents(ctx context.Context, folderID string) ([]*models.Content, error) {
	folder, err := svc.RetrieveFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var contents []*models.Content
	q := svc.db.
		NewSelect().
		Model(&contents).
		Relation("Author").
		Join("JOIN user_folder_contents AS ufc ON ufc.content_id = c.id").
		Where("ufc.user_folder_id = ?", folderID)

	switch folder.SortPreference {
	case models.FolderSortTitleAsc:
		q = q.OrderExpr("c.title COLLATE NOCASE ASC, c.id ASC")
	case models.FolderSortAuthorAsc:
		q = q.OrderExpr("author.name COLLATE NOCASE ASC, c.title COLLATE NOCASE ASC, c.id ASC")
	default:
		q = q.OrderExpr("ufc.date_added DESC, ufc.id DESC")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	for _, c := range contents {
		if c.ContentType == models.ContentTypeSound && c.Author == nil {
			c.Author = models.UnknownAuthor()
		}
	}
	return contents, nil
}

// FoldersContaining returns the ids of every folder that contains contentID.
func (svc *Service) FoldersContaining(ctx context.Context, contentID string) ([]string, error) {
	return ContainingContent(ctx, svc.db, contentID)
}

// ContainingContent is FoldersContaining on an arbitrary db or transaction.
func ContainingContent(ctx context.Context, db bun.IDB, contentID string) ([]string, error) {
	var ids []string
	err := db.NewSelect().
		Model((*models.UserFolderContent)(nil)).
		Column("user_folder_id").
		Where("content_id = ?", contentID).
		Order("user_folder_id").
		Scan(ctx, &ids)
	return ids, errors.WithStack(err)
}

// RefreshChangeHash recomputes the folder's change hash from its current
// metadata and membership and bumps its version when the hash moved. Callers
// that change membership outside this package must call it in the same tx.
func RefreshChangeHash(ctx context.Context, tx bun.Tx, folderID string) error {
	folder := &models.UserFolder{}
	err := tx.NewSelect().
		Model(folder).
		Where("uf.id = ?", folderID).
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	var members []string
	err = tx.NewSelect().
		Model((*models.UserFolderContent)(nil)).
		Column("content_id").
		Where("user_folder_id = ?", folderID).
		Scan(ctx, &members)
	if err != nil {
		return errors.WithStack(err)
	}

	hash := models.ComputeChangeHash(folderMetadata(folder), members, false)
	if hash == folder.ChangeHash {
		return nil
	}

	_, err = tx.NewUpdate().
		Model((*models.UserFolder)(nil)).
		Set("change_hash = ?", hash).
		Set("version = version + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", folderID).
		Exec(ctx)
	return errors.WithStack(err)
}
