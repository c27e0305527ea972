package pinned

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	pinnedService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.pinnedService.List(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, items))
}

func (h *handler) pin(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.pinnedService.Pin(ctx, c.Param("contentId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, item))
}

func (h *handler) unpin(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.pinnedService.Unpin(ctx, c.Param("contentId")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
