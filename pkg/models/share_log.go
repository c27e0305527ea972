package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ShareLog struct {
	bun.BaseModel `bun:"table:share_logs,alias:sl"`

	ID           int       `bun:",pk,autoincrement" json:"id"`
	InstallID    string    `bun:",notnull" json:"install_id"`
	ContentID    string    `bun:",notnull" json:"content_id"`
	ContentType  string    `bun:",notnull" json:"content_type"`
	DateTime     time.Time `bun:",notnull" json:"date_time"`
	Destination  string    `bun:",notnull" json:"destination"`
	SentToServer bool      `bun:",notnull" json:"sent_to_server"`
}
