package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	MediaTypeSound  = "sound"
	MediaTypeSong   = "song"
	MediaTypeAuthor = "author"
	MediaTypeGenre  = "genre"
)

const (
	EventTypeAdd         = "add"
	EventTypeModify      = "modify"
	EventTypeRemove      = "remove"
	EventTypeFileUpdated = "file_updated"
)

const (
	UpdateEventStatusPending   = "pending"
	UpdateEventStatusSucceeded = "succeeded"
	UpdateEventStatusFailed    = "failed"
)

// UpdateEvent is one entry of the server's content change feed as recorded
// locally. DidSucceed is nil until an apply attempt finishes.
type UpdateEvent struct {
	bun.BaseModel `bun:"table:update_events,alias:ue"`

	ID            string     `bun:",pk" json:"id"`
	ContentID     string     `bun:",notnull" json:"content_id"`
	DateTime      time.Time  `bun:",notnull" json:"date_time"`
	MediaType     string     `bun:",notnull" json:"media_type"`
	EventType     string     `bun:",notnull" json:"event_type"`
	DidSucceed    *bool      `json:"did_succeed"`
	Attempts      int        `bun:",notnull" json:"attempts"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	CreatedAt     time.Time  `bun:",notnull" json:"created_at"`
}

func (e *UpdateEvent) Status() string {
	switch {
	case e.DidSucceed == nil:
		return UpdateEventStatusPending
	case *e.DidSucceed:
		return UpdateEventStatusSucceeded
	default:
		return UpdateEventStatusFailed
	}
}
