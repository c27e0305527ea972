package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID            string    `bun:",pk" json:"id"`
	Name          string    `bun:",notnull" json:"name"`
	Photo         *string   `json:"photo,omitempty"`
	Description   *string   `json:"description,omitempty"`
	ExternalLinks *string   `json:"-"`
	CreatedAt     time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:",notnull" json:"updated_at"`
	SoundCount    int       `bun:",scanonly" json:"sound_count"`

	Links []ExternalLink `bun:"-" json:"external_links,omitempty"`
}

type ExternalLink struct {
	Symbol string `json:"symbol"`
	Title  string `json:"title"`
	Color  string `json:"color,omitempty"`
	Link   string `json:"link"`
}

// MarshalLinks stores Links into the ExternalLinks column.
func (a *Author) MarshalLinks() error {
	if len(a.Links) == 0 {
		a.ExternalLinks = nil
		return nil
	}
	data, err := json.Marshal(a.Links)
	if err != nil {
		return errors.WithStack(err)
	}
	s := string(data)
	a.ExternalLinks = &s
	return nil
}

// UnmarshalLinks populates Links from the ExternalLinks column.
func (a *Author) UnmarshalLinks() error {
	a.Links = nil
	if a.ExternalLinks == nil || *a.ExternalLinks == "" {
		return nil
	}
	return errors.WithStack(json.Unmarshal([]byte(*a.ExternalLinks), &a.Links))
}
