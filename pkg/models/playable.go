package models

import "github.com/pkg/errors"

// Playable is anything the app can play and share: a Sound, a Song or an
// Episode. The set is closed; switch over the concrete types.
type Playable interface {
	PlayableID() string
	PlayableTitle() string
	PlayableKind() string
	isPlayable()
}

type Sound struct {
	*Content
}

type Song struct {
	*Content
}

type PlayableEpisode struct {
	*Episode
}

func (s Sound) PlayableID() string    { return s.ID }
func (s Sound) PlayableTitle() string { return s.Title }
func (Sound) PlayableKind() string    { return ContentTypeSound }
func (Sound) isPlayable()             {}

func (s Song) PlayableID() string    { return s.ID }
func (s Song) PlayableTitle() string { return s.Title }
func (Song) PlayableKind() string    { return ContentTypeSong }
func (Song) isPlayable()             {}

func (e PlayableEpisode) PlayableID() string    { return e.ID }
func (e PlayableEpisode) PlayableTitle() string { return e.Title }
func (PlayableEpisode) PlayableKind() string    { return ContentTypeEpisode }
func (PlayableEpisode) isPlayable()             {}

// AsPlayable returns the typed variant for the row's content type.
func (c *Content) AsPlayable() (Playable, error) {
	switch c.ContentType {
	case ContentTypeSound:
		return Sound{c}, nil
	case ContentTypeSong:
		return Song{c}, nil
	default:
		return nil, errors.Errorf("unknown content type %q", c.ContentType)
	}
}

// ShareContentType is the content type recorded in the share log for p.
func ShareContentType(p Playable) string {
	switch p.(type) {
	case Sound:
		return ContentTypeSound
	case Song:
		return ContentTypeSong
	case PlayableEpisode:
		return ContentTypeEpisode
	}
	return ""
}
