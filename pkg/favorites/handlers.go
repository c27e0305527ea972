package favorites

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	favoriteService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	contents, err := h.favoriteService.List(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, contents))
}

func (h *handler) add(c echo.Context) error {
	ctx := c.Request().Context()

	added, err := h.favoriteService.Add(ctx, c.Param("contentId"))
	if err != nil {
		return errors.WithStack(err)
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	return errors.WithStack(c.JSON(status, map[string]any{"added": added}))
}

func (h *handler) remove(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.favoriteService.Remove(ctx, c.Param("contentId")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
