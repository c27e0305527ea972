package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Playlist struct {
	bun.BaseModel `bun:"table:playlists,alias:pl"`

	ID           string    `bun:",pk" json:"id"`
	Name         string    `bun:",notnull" json:"name"`
	CreatedAt    time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt    time.Time `bun:",notnull" json:"updated_at"`
	ChangeHash   string    `bun:",notnull" json:"change_hash"`
	ContentCount int       `bun:",scanonly" json:"content_count"`

	Contents []*PlaylistContent `bun:"rel:has-many,join:id=playlist_id" json:"contents,omitempty"`
}

type PlaylistContent struct {
	bun.BaseModel `bun:"table:playlist_contents,alias:plc"`

	ID         int       `bun:",pk,autoincrement" json:"id"`
	PlaylistID string    `bun:",notnull" json:"playlist_id"`
	ContentID  string    `bun:",notnull" json:"content_id"`
	Content    *Content  `bun:"rel:belongs-to,join:content_id=id" json:"content,omitempty"`
	SortOrder  int       `bun:",notnull" json:"sort_order"`
	DateAdded  time.Time `bun:",notnull" json:"date_added"`
}
