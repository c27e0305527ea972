package episodes

type ListEpisodesQuery struct {
	Limit     int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=100"`
	Offset    int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	PodcastID *string `query:"podcast_id" json:"podcast_id,omitempty" validate:"omitempty"`
}

type CreateBookmarkPayload struct {
	TimestampSeconds float64 `json:"timestamp_seconds" validate:"min=0"`
	Title            *string `json:"title,omitempty" mod:"trim" validate:"omitempty,max=200"`
	Description      *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
}

type SaveProgressPayload struct {
	CurrentSeconds  float64 `json:"current_seconds" validate:"min=0"`
	DurationSeconds float64 `json:"duration_seconds" validate:"min=0"`
}
