package genres

type ListGenresQuery struct {
	IncludeHidden bool `query:"include_hidden" json:"include_hidden,omitempty"`
}
