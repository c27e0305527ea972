package playlists

type CreatePlaylistPayload struct {
	Name string `json:"name" mod:"trim" validate:"required,max=100"`
}

type UpdatePlaylistPayload struct {
	Name string `json:"name" mod:"trim" validate:"required,max=100"`
}

type AddContentPayload struct {
	ContentID string `json:"content_id" mod:"trim" validate:"required"`
}

type ReorderPayload struct {
	ContentIDs []string `json:"content_ids" validate:"required,dive,required"`
}
