package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	SyncLogLevelInfo  = "info"
	SyncLogLevelWarn  = "warn"
	SyncLogLevelError = "error"
)

type SyncLog struct {
	bun.BaseModel `bun:"table:sync_logs,alias:syl"`

	ID            int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt     time.Time `bun:",notnull" json:"created_at"`
	Level         string    `bun:",notnull" json:"level"`
	Message       string    `bun:",notnull" json:"message"`
	UpdateEventID *string   `json:"update_event_id,omitempty"`
	Data          *string   `json:"data,omitempty"`
	SystemName    string    `bun:",notnull" json:"system_name"`
	SystemVersion string    `bun:",notnull" json:"system_version"`
	AppVersion    string    `bun:",notnull" json:"app_version"`
	DeviceModel   string    `bun:",notnull" json:"device_model"`
}

type NetworkCallLog struct {
	bun.BaseModel `bun:"table:network_call_logs,alias:ncl"`

	ID            int       `bun:",pk,autoincrement" json:"id"`
	CallDate      time.Time `bun:",notnull" json:"call_date"`
	RequestURL    string    `bun:",notnull" json:"request_url"`
	RequestBody   *string   `json:"request_body,omitempty"`
	ResponseCode  int       `bun:",notnull" json:"response_code"`
	WasSuccessful bool      `bun:",notnull" json:"was_successful"`
}
