package stats

type RankingQuery struct {
	Limit int `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=100"`
}

// PeriodQuery bounds are calendar days, "2006-01-02". To is inclusive.
type PeriodQuery struct {
	From  *string `query:"from" json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To    *string `query:"to" json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Limit int     `query:"limit" json:"limit,omitempty" default:"5" validate:"min=1,max=100"`
}
