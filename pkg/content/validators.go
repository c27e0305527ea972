package content

type ListContentQuery struct {
	Limit            int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset           int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search           *string `query:"search" json:"search,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Sort             string  `query:"sort" json:"sort,omitempty" validate:"sort_option"`
	AuthorID         *string `query:"author_id" json:"author_id,omitempty"`
	GenreID          *string `query:"genre_id" json:"genre_id,omitempty"`
	IncludeOffensive *bool   `query:"include_offensive" json:"include_offensive,omitempty"`
}
