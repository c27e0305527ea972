package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Episode struct {
	bun.BaseModel `bun:"table:episodes,alias:e"`

	ID          string    `bun:",pk" json:"id"`
	PodcastID   string    `bun:",notnull" json:"podcast_id"`
	Title       string    `bun:",notnull" json:"title"`
	Description *string   `json:"description,omitempty"`
	PubDate     time.Time `bun:",notnull" json:"pub_date"`
	Duration    float64   `bun:",notnull" json:"duration"`
	RemoteURL   string    `bun:",notnull" json:"remote_url"`
	IsExplicit  bool      `bun:",notnull" json:"is_explicit"`
	CreatedAt   time.Time `bun:",notnull" json:"created_at"`

	Progress *EpisodeProgress `bun:"rel:has-one,join:id=episode_id" json:"progress,omitempty"`
}

type EpisodeBookmark struct {
	bun.BaseModel `bun:"table:episode_bookmarks,alias:eb"`

	ID               string    `bun:",pk" json:"id"`
	EpisodeID        string    `bun:",notnull" json:"episode_id"`
	TimestampSeconds float64   `bun:",notnull" json:"timestamp_seconds"`
	Title            *string   `json:"title,omitempty"`
	Description      *string   `json:"description,omitempty"`
	CreatedAt        time.Time `bun:",notnull" json:"created_at"`
}

type EpisodeProgress struct {
	bun.BaseModel `bun:"table:episode_progress,alias:ep"`

	EpisodeID       string    `bun:",pk" json:"episode_id"`
	CurrentSeconds  float64   `bun:",notnull" json:"current_seconds"`
	DurationSeconds float64   `bun:",notnull" json:"duration_seconds"`
	HasFinished     bool      `bun:",notnull" json:"has_finished"`
	UpdatedAt       time.Time `bun:",notnull" json:"updated_at"`
}
