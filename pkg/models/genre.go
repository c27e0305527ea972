package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID        string    `bun:",pk" json:"id"`
	Symbol    string    `bun:",notnull" json:"symbol"`
	Name      string    `bun:",notnull" json:"name"`
	IsHidden  bool      `bun:",notnull" json:"is_hidden"`
	CreatedAt time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt time.Time `bun:",notnull" json:"updated_at"`
	SongCount int       `bun:",scanonly" json:"song_count"`
}
