package sharelogs

type ListShareLogsQuery struct {
	Limit     int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset    int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	ContentID *string `query:"content_id" json:"content_id,omitempty" validate:"omitempty"`
}

type CreateShareLogPayload struct {
	ContentID   string `json:"content_id" mod:"trim" validate:"required"`
	Destination string `json:"destination" mod:"trim" default:"other" validate:"required,max=100"`
}
