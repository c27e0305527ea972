package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ContentTypeSound   = "sound"
	ContentTypeSong    = "song"
	ContentTypeEpisode = "episode"
)

// Content is a row of the content table, which holds both sounds and songs.
// Use AsPlayable to get the typed variant.
type Content struct {
	bun.BaseModel `bun:"table:content,alias:c"`

	ID           string    `bun:",pk" json:"id"`
	ContentType  string    `bun:",notnull" json:"content_type"`
	Title        string    `bun:",notnull" json:"title"`
	Description  string    `bun:",notnull" json:"description"`
	SearchText   *string   `json:"search_text,omitempty"`
	AuthorID     *string   `json:"author_id,omitempty"`
	Author       *Author   `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	GenreID      *string   `json:"genre_id,omitempty"`
	Genre        *Genre    `bun:"rel:belongs-to,join:genre_id=id" json:"genre,omitempty"`
	Duration     float64   `bun:",notnull" json:"duration"`
	Filename     *string   `json:"filename,omitempty"`
	IsFromServer bool      `bun:",notnull" json:"is_from_server"`
	IsOffensive  bool      `bun:",notnull" json:"is_offensive"`
	DateAdded    time.Time `bun:",notnull" json:"date_added"`
	CreatedAt    time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt    time.Time `bun:",notnull" json:"updated_at"`
}

// UnknownAuthorID is the placeholder used when a sound references an author
// that is not in the store.
const (
	UnknownAuthorID   = "unknown"
	UnknownAuthorName = "Unknown author"
)

// UnknownAuthor returns the placeholder shown for orphaned author references.
func UnknownAuthor() *Author {
	return &Author{
		ID:   UnknownAuthorID,
		Name: UnknownAuthorName,
	}
}
