package playlists

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

func (svc *Service) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = uuid.NewString()
	}
	now := time.Now()
	if playlist.CreatedAt.IsZero() {
		playlist.CreatedAt = now
	}
	playlist.UpdatedAt = playlist.CreatedAt
	playlist.ChangeHash = models.ComputeChangeHash([]string{playlist.Name}, nil, true)

	_, err := svc.db.
		NewInsert().
		Model(playlist).
		Exec(ctx)
	return database.ClassifyError(err, "Playlist")
}

func (svc *Service) RetrievePlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	playlist := &models.Playlist{}

	err := svc.db.
		NewSelect().
		Model(playlist).
		ColumnExpr("pl.*").
		ColumnExpr("(SELECT COUNT(*) FROM playlist_contents plc WHERE plc.playlist_id = pl.id) AS content_count").
		Where("pl.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Playlist")
		}
		return nil, errors.WithStack(err)
	}
	return playlist, nil
}

func (svc *Service) ListPlaylists(ctx context.Context) ([]*models.Playlist, error) {
	var playlists []*models.Playlist

	err := svc.db.
		NewSelect().
		Model(&playlists).
		ColumnExpr("pl.*").
		ColumnExpr("(SELECT COUNT(*) FROM playlist_contents plc WHERE plc.playlist_id = pl.id) AS content_count").
		OrderExpr("pl.created_at DESC, pl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return playlists, nil
}

func (svc *Service) RenamePlaylist(ctx context.Context, id, name string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Playlist)(nil)).
			Set("name = ?", name).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Playlist")
		}
		return RefreshChangeHash(ctx, tx, id)
	})
}

func (svc *Service) DeletePlaylist(ctx context.Context, id string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.PlaylistContent)(nil)).
			Where("playlist_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Playlist)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Playlist")
		}
		return nil
	})
}

func (svc *Service) Exists(ctx context.Context, playlistID, contentID string) (bool, error) {
	return membershipExists(ctx, svc.db, playlistID, contentID)
}

func membershipExists(ctx context.Context, db bun.IDB, playlistID, contentID string) (bool, error) {
	exists, err := db.NewSelect().
		Model((*models.PlaylistContent)(nil)).
		Where("plc.playlist_id = ?", playlistID).
		Where("plc.content_id = ?", contentID).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

// AddContent appends contentID to the end of the playlist. Adding content that
// is already there is a no-op and reports false.
func (svc *Service) AddContent(ctx context.Context, playlistID, contentID string) (bool, error) {
	added := false
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Playlist)(nil)).
			Where("pl.id = ?", playlistID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Playlist")
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

		member, err := membershipExists(ctx, tx, playlistID, contentID)
		if err != nil || member {
			return err
		}

		var next int
		err = tx.NewSelect().
			Model((*models.PlaylistContent)(nil)).
			ColumnExpr("COALESCE(MAX(sort_order) + 1, 0)").
			Where("playlist_id = ?", playlistID).
			Scan(ctx, &next)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewInsert().
			Model(&models.PlaylistContent{
				PlaylistID: playlistID,
				ContentID:  contentID,
				SortOrder:  next,
				DateAdded:  time.Now(),
			}).
			Exec(ctx)
		if err != nil {
			return database.ClassifyError(err, "Playlist content")
		}
		added = true

		return RefreshChangeHash(ctx, tx, playlistID)
	})
	return added, err
}

// RemoveContent takes contentID out of the playlist and closes the gap in the
// ordering.
func (svc *Service) RemoveContent(ctx context.Context, playlistID, contentID string) (bool, error) {
	removed := false
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.PlaylistContent)(nil)).
			Where("playlist_id = ?", playlistID).
			Where("content_id = ?", contentID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return errors.WithStack(err)
		}
		removed = true

		members, err := memberIDs(ctx, tx, playlistID)
		if err != nil {
			return err
		}
		if err := writeOrder(ctx, tx, playlistID, members); err != nil {
			return err
		}
		return RefreshChangeHash(ctx, tx, playlistID)
	})
	return removed, err
}

// Reorder sets the playlist order. contentIDs must be exactly the current
// members.
func (svc *Service) Reorder(ctx context.Context, playlistID string, contentIDs []string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		current, err := memberIDs(ctx, tx, playlistID)
		if err != nil {
			return err
		}
		if !sameMembers(current, contentIDs) {
			return errcodes.ValidationError("The new order must contain every item of the playlist exactly once.")
		}
		if err := writeOrder(ctx, tx, playlistID, contentIDs); err != nil {
			return err
		}
		return RefreshChangeHash(ctx, tx, playlistID)
	})
}

func (svc *Service) ListContents(ctx context.Context, playlistID string) ([]*models.Content, error) {
	if _, err := svc.RetrievePlaylist(ctx, playlistID); err != nil {
		return nil, err
	}

	var contents []*models.Content
	err := svc.db.
		NewSelect().
		Model(&contents).
		Relation("Author").
		Join("JOIN playlist_contents AS plc ON plc.content_id = c.id").
		Where("plc.playlist_id = ?", playlistID).
		OrderExpr("plc.sort_order ASC, plc.id ASC").
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

func memberIDs(ctx context.Context, tx bun.Tx, playlistID string) ([]string, error) {
	var ids []string
	err := tx.NewSelect().
		Model((*models.PlaylistContent)(nil)).
		Column("content_id").
		Where("playlist_id = ?", playlistID).
		OrderExpr("sort_order ASC, id ASC").
		Scan(ctx, &ids)
	return ids, errors.WithStack(err)
}

func writeOrder(ctx context.Context, tx bun.Tx, playlistID string, contentIDs []string) error {
	for i, id := range contentIDs {
		_, err := tx.NewUpdate().
			Model((*models.PlaylistContent)(nil)).
			Set("sort_order = ?", i).
			Where("playlist_id = ?", playlistID).
			Where("content_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func sameMembers(current, proposed []string) bool {
	if len(current) != len(proposed) {
		return false
	}
	seen := make(map[string]int, len(current))
	for _, id := range current {
		seen[id]++
	}
	for _, id := range proposed {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}

// ContainingContent returns the ids of every playlist that contains contentID.
func ContainingContent(ctx context.Context, db bun.IDB, contentID string) ([]string, error) {
	var ids []string
	err := db.NewSelect().
		Model((*models.PlaylistContent)(nil)).
		Column("playlist_id").
		Where("content_id = ?", contentID).
		Order("playlist_id").
		Scan(ctx, &ids)
	return ids, errors.WithStack(err)
}

// RefreshChangeHash recomputes the playlist's change hash from its name and
// ordered membership.
func RefreshChangeHash(ctx context.Context, tx bun.Tx, playlistID string) error {
	playlist := &models.Playlist{}
	err := tx.NewSelect().
		Model(playlist).
		Where("pl.id = ?", playlistID).
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	members, err := memberIDs(ctx, tx, playlistID)
	if err != nil {
		return err
	}

	hash := models.ComputeChangeHash([]string{playlist.Name}, members, true)
	if hash == playlist.ChangeHash {
		return nil
	}

	_, err = tx.NewUpdate().
		Model((*models.Playlist)(nil)).
		Set("change_hash = ?", hash).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playlistID).
		Exec(ctx)
	return errors.WithStack(err)
}
