package folders

type CreateFolderPayload struct {
	Symbol          string `json:"symbol" mod:"trim" validate:"required,max=50"`
	Name            string `json:"name" mod:"trim" validate:"required,max=100"`
	BackgroundColor string `json:"background_color" mod:"trim" validate:"required,max=30"`
	SortPreference  string `json:"sort_preference,omitempty" validate:"omitempty,oneof=date_added_desc title_asc author_asc"`
}

type UpdateFolderPayload struct {
	Symbol          *string `json:"symbol,omitempty" mod:"trim" validate:"omitempty,min=1,max=50"`
	Name            *string `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=100"`
	BackgroundColor *string `json:"background_color,omitempty" mod:"trim" validate:"omitempty,min=1,max=30"`
	SortPreference  *string `json:"sort_preference,omitempty" validate:"omitempty,oneof=date_added_desc title_asc author_asc"`
}

type AddContentPayload struct {
	ContentID string `json:"content_id" mod:"trim" validate:"required"`
}
