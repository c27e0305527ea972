package stats

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// TiedWeekdaySeparator joins weekdays that share the highest count.
const TiedWeekdaySeparator = ", "

// DateRange is inclusive of Start and exclusive of End. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type RankedItem struct {
	Rank      int     `bun:"-" json:"rank"`
	ContentID string  `bun:"content_id" json:"content_id"`
	Title     *string `bun:"title" json:"title,omitempty"`
	Count     int     `bun:"share_count" json:"count"`
}

type RankedAuthor struct {
	Rank     int    `bun:"-" json:"rank"`
	AuthorID string `bun:"author_id" json:"author_id"`
	Name     string `bun:"name" json:"name"`
	Count    int    `bun:"share_count" json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type Retrospective struct {
	TopSounds                  []*RankedItem   `json:"top_sounds"`
	TopAuthors                 []*RankedAuthor `json:"top_authors"`
	TotalShareCount            int             `json:"total_share_count"`
	DistinctContentSharedCount int             `json:"distinct_content_shared_count"`
	MostCommonShareWeekday     *string         `json:"most_common_share_weekday"`
}

// Service answers questions about the share log. Nothing is cached; every
// call reads the log again.
type Service struct {
	db       bun.IDB
	weekdays [7]string
}

func NewService(db bun.IDB, locale string) *Service {
	return &Service{db: db, weekdays: weekdayNamesFor(locale)}
}

func applyRange(q *bun.SelectQuery, within *DateRange) *bun.SelectQuery {
	if within == nil {
		return q
	}
	if !within.Start.IsZero() {
		q = q.Where("sl.date_time >= ?", within.Start.UTC())
	}
	if !within.End.IsZero() {
		q = q.Where("sl.date_time < ?", within.End.UTC())
	}
	return q
}

func (svc *Service) shareLogs() *bun.SelectQuery {
	return svc.db.
		NewSelect().
		Model((*models.ShareLog)(nil))
}

// TopSoundsSharedByUser ranks sounds by how often they were shared. Equal
// counts are ordered by content id so the same log always gives the same
// ranking.
func (svc *Service) TopSoundsSharedByUser(ctx context.Context, n int) ([]*RankedItem, error) {
	return svc.topSounds(ctx, n, nil)
}

func (svc *Service) topSounds(ctx context.Context, n int, within *DateRange) ([]*RankedItem, error) {
	items := []*RankedItem{}
	if n <= 0 {
		return items, nil
	}

	q := svc.shareLogs().
		ColumnExpr("sl.content_id").
		ColumnExpr("MAX(c.title) AS title").
		ColumnExpr("COUNT(*) AS share_count").
		Join("LEFT JOIN content AS c ON c.id = sl.content_id").
		Where("sl.content_type = ?", models.ContentTypeSound).
		GroupExpr("sl.content_id").
		OrderExpr("share_count DESC, sl.content_id ASC").
		Limit(n)
	q = applyRange(q, within)

	if err := q.Scan(ctx, &items); err != nil {
		return nil, errors.WithStack(err)
	}
	for i, item := range items {
		item.Rank = i + 1
	}
	return items, nil
}

// TopAuthorsSharedByUser ranks authors by the shares of their sounds.
// Shares of sounds that are no longer in the store are not counted.
func (svc *Service) TopAuthorsSharedByUser(ctx context.Context, n int) ([]*RankedAuthor, error) {
	return svc.topAuthors(ctx, n, nil)
}

func (svc *Service) topAuthors(ctx context.Context, n int, within *DateRange) ([]*RankedAuthor, error) {
	authors := []*RankedAuthor{}
	if n <= 0 {
		return authors, nil
	}

	q := svc.shareLogs().
		ColumnExpr("c.author_id").
		ColumnExpr("COALESCE(MAX(a.name), ?) AS name", models.UnknownAuthorName).
		ColumnExpr("COUNT(*) AS share_count").
		Join("JOIN content AS c ON c.id = sl.content_id").
		Join("LEFT JOIN authors AS a ON a.id = c.author_id").
		Where("sl.content_type = ?", models.ContentTypeSound).
		Where("c.author_id IS NOT NULL").
		GroupExpr("c.author_id").
		OrderExpr("share_count DESC, c.author_id ASC").
		Limit(n)
	q = applyRange(q, within)

	if err := q.Scan(ctx, &authors); err != nil {
		return nil, errors.WithStack(err)
	}
	for i, a := range authors {
		a.Rank = i + 1
	}
	return authors, nil
}

func (svc *Service) TotalShareCount(ctx context.Context) (int, error) {
	return svc.totalShareCount(ctx, nil)
}

func (svc *Service) totalShareCount(ctx context.Context, within *DateRange) (int, error) {
	count, err := applyRange(svc.shareLogs(), within).Count(ctx)
	return count, errors.WithStack(err)
}

func (svc *Service) DistinctContentSharedCount(ctx context.Context) (int, error) {
	return svc.distinctContentSharedCount(ctx, nil)
}

func (svc *Service) distinctContentSharedCount(ctx context.Context, within *DateRange) (int, error) {
	var count int
	q := svc.shareLogs().ColumnExpr("COUNT(DISTINCT sl.content_id)")
	err := applyRange(q, within).Scan(ctx, &count)
	return count, errors.WithStack(err)
}

func (svc *Service) shareTimes(ctx context.Context, within *DateRange) ([]time.Time, error) {
	var times []time.Time
	q := svc.shareLogs().Column("sl.date_time")
	if err := applyRange(q, within).Scan(ctx, &times); err != nil {
		return nil, errors.WithStack(err)
	}
	return times, nil
}

// MostCommonShareWeekday returns the weekday with the most shares, named in
// the configured locale. When several weekdays tie, all of them are returned
// in calendar order joined by TiedWeekdaySeparator. It is nil when nothing
// was shared.
func (svc *Service) MostCommonShareWeekday(ctx context.Context, within *DateRange) (*string, error) {
	times, err := svc.shareTimes(ctx, within)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, nil
	}

	var counts [7]int
	for _, t := range times {
		counts[t.Weekday()]++
	}

	best := 0
	for _, c := range counts {
		if c > best {
			best = c
		}
	}

	var names []string
	for d, c := range counts {
		if c == best {
			names = append(names, weekdayName(svc.weekdays, time.Weekday(d)))
		}
	}
	joined := strings.Join(names, TiedWeekdaySeparator)
	return &joined, nil
}

// ShareCountsByDay buckets shares by calendar day, oldest first.
func (svc *Service) ShareCountsByDay(ctx context.Context, within *DateRange) ([]*DayCount, error) {
	times, err := svc.shareTimes(ctx, within)
	if err != nil {
		return nil, err
	}

	byDay := map[string]int{}
	for _, t := range times {
		byDay[t.Format(time.DateOnly)]++
	}

	days := make([]*DayCount, 0, len(byDay))
	for day, count := range byDay {
		days = append(days, &DayCount{Day: day, Count: count})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day < days[j].Day
	})
	return days, nil
}

// Retrospective summarizes sharing within a period, or over the whole log
// when within is nil.
func (svc *Service) Retrospective(ctx context.Context, within *DateRange, n int) (*Retrospective, error) {
	r := &Retrospective{}
	var err error

	if r.TopSounds, err = svc.topSounds(ctx, n, within); err != nil {
		return nil, err
	}
	if r.TopAuthors, err = svc.topAuthors(ctx, n, within); err != nil {
		return nil, err
	}
	if r.TotalShareCount, err = svc.totalShareCount(ctx, within); err != nil {
		return nil, err
	}
	if r.DistinctContentSharedCount, err = svc.distinctContentSharedCount(ctx, within); err != nil {
		return nil, err
	}
	if r.MostCommonShareWeekday, err = svc.MostCommonShareWeekday(ctx, within); err != nil {
		return nil, err
	}
	return r, nil
}
