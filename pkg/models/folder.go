package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Folder sort options.
const (
	FolderSortDateAddedDesc = "date_added_desc"
	FolderSortTitleAsc      = "title_asc"
	FolderSortAuthorAsc     = "author_asc"
)

type UserFolder struct {
	bun.BaseModel `bun:"table:user_folders,alias:uf"`

	ID              string    `bun:",pk" json:"id"`
	Symbol          string    `bun:",notnull" json:"symbol"`
	Name            string    `bun:",notnull" json:"name"`
	BackgroundColor string    `bun:",notnull" json:"background_color"`
	CreatedAt       time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt       time.Time `bun:",notnull" json:"updated_at"`
	Version         int       `bun:",notnull" json:"version"`
	ChangeHash      string    `bun:",notnull" json:"change_hash"`
	SortPreference  string    `bun:",notnull" json:"sort_preference"`
	ContentCount    int       `bun:",scanonly" json:"content_count"`

	Contents []*UserFolderContent `bun:"rel:has-many,join:id=user_folder_id" json:"contents,omitempty"`
}

type UserFolderContent struct {
	bun.BaseModel `bun:"table:user_folder_contents,alias:ufc"`

	ID           int       `bun:",pk,autoincrement" json:"id"`
	UserFolderID string    `bun:",notnull" json:"user_folder_id"`
	ContentID    string    `bun:",notnull" json:"content_id"`
	Content      *Content  `bun:"rel:belongs-to,join:content_id=id" json:"content,omitempty"`
	DateAdded    time.Time `bun:",notnull" json:"date_added"`
}
