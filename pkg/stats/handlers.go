package stats

import (
	"net/http"
	"time"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	statsService *Service
}

func (q PeriodQuery) dateRange() (*DateRange, error) {
	if q.From == nil && q.To == nil {
		return nil, nil
	}
	r := &DateRange{}
	if q.From != nil {
		from, err := time.Parse(time.DateOnly, *q.From)
		if err != nil {
			return nil, errcodes.ValidationError("from must be a date like 2024-01-31.")
		}
		r.Start = from
	}
	if q.To != nil {
		to, err := time.Parse(time.DateOnly, *q.To)
		if err != nil {
			return nil, errcodes.ValidationError("to must be a date like 2024-01-31.")
		}
		r.End = to.AddDate(0, 0, 1)
	}
	if !r.Start.IsZero() && !r.End.IsZero() && !r.Start.Before(r.End) {
		return nil, errcodes.ValidationError("from must not be after to.")
	}
	return r, nil
}

func (h *handler) topSounds(c echo.Context) error {
	ctx := c.Request().Context()

	params := RankingQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	items, err := h.statsService.TopSoundsSharedByUser(ctx, params.Limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, items))
}

func (h *handler) topAuthors(c echo.Context) error {
	ctx := c.Request().Context()

	params := RankingQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	authors, err := h.statsService.TopAuthorsSharedByUser(ctx, params.Limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, authors))
}

func (h *handler) totals(c echo.Context) error {
	ctx := c.Request().Context()

	total, err := h.statsService.TotalShareCount(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	distinct, err := h.statsService.DistinctContentSharedCount(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		TotalShareCount            int `json:"total_share_count"`
		DistinctContentSharedCount int `json:"distinct_content_shared_count"`
	}{total, distinct}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) weekday(c echo.Context) error {
	ctx := c.Request().Context()

	params := PeriodQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	within, err := params.dateRange()
	if err != nil {
		return errors.WithStack(err)
	}

	weekday, err := h.statsService.MostCommonShareWeekday(ctx, within)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Weekday *string `json:"weekday"`
	}{weekday}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) byDay(c echo.Context) error {
	ctx := c.Request().Context()

	params := PeriodQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	within, err := params.dateRange()
	if err != nil {
		return errors.WithStack(err)
	}

	days, err := h.statsService.ShareCountsByDay(ctx, within)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, days))
}

func (h *handler) retrospective(c echo.Context) error {
	ctx := c.Request().Context()

	params := PeriodQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	within, err := params.dateRange()
	if err != nil {
		return errors.WithStack(err)
	}

	r, err := h.statsService.Retrospective(ctx, within, params.Limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, r))
}
