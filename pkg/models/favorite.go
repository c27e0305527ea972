package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:f"`

	ContentID string    `bun:",pk" json:"content_id"`
	Content   *Content  `bun:"rel:belongs-to,join:content_id=id" json:"content,omitempty"`
	DateAdded time.Time `bun:",notnull" json:"date_added"`
}

type PinnedItem struct {
	bun.BaseModel `bun:"table:pinned_items,alias:pi"`

	ID        string    `bun:",pk" json:"id"`
	ContentID string    `bun:",notnull" json:"content_id"`
	Content   *Content  `bun:"rel:belongs-to,join:content_id=id" json:"content,omitempty"`
	Position  int       `bun:",notnull" json:"position"`
	AddedAt   time.Time `bun:",notnull" json:"added_at"`
}
