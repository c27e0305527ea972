package content

import (
	"net/http"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	contentType     string
	contentService  *Service
	settingsService *settings.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListContentQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	prefs, err := h.settingsService.RetrievePreferences(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := ListContentOptions{
		ContentType:      &h.contentType,
		AuthorID:         params.AuthorID,
		GenreID:          params.GenreID,
		Search:           params.Search,
		IncludeOffensive: prefs.ShowExplicitContent,
		Sort:             params.Sort,
		Limit:            &params.Limit,
		Offset:           &params.Offset,
	}
	if params.IncludeOffensive != nil {
		opts.IncludeOffensive = *params.IncludeOffensive
	}
	if opts.Sort == "" {
		opts.Sort = prefs.SoundSortOption
		if h.contentType == models.ContentTypeSong {
			opts.Sort = prefs.SongSortOption
		}
	}

	contents, total, err := h.contentService.ListContentWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"items": contents,
		"total": total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.contentService.RetrieveContent(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if item.ContentType != h.contentType {
		return errcodes.NotFound(resourceName(h.contentType))
	}

	return errors.WithStack(c.JSON(http.StatusOK, item))
}

func (h *handler) file(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.contentService.RetrieveContent(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if item.ContentType != h.contentType {
		return errcodes.NotFound(resourceName(h.contentType))
	}

	path, err := h.contentService.ResolveFile(ctx, item.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.File(path))
}
