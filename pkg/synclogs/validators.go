package synclogs

type ListSyncLogsQuery struct {
	AfterID       *int     `query:"after_id" json:"after_id,omitempty"`
	Level         []string `query:"level" json:"level,omitempty" validate:"dive,oneof=info warn error"`
	UpdateEventID *string  `query:"update_event_id" json:"update_event_id,omitempty"`
	Limit         int      `query:"limit" json:"limit,omitempty" default:"200" validate:"min=1,max=1000"`
}
