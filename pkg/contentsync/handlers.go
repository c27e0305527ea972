package contentsync

import (
	"net/http"
	"time"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	engine          *Engine
	eventService    *EventService
	settingsService *settings.Service
}

func (h *handler) sync(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.engine.Sync(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}

func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	memory, err := h.settingsService.RetrieveAppMemory(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Status
		Checkpoint     *time.Time `json:"checkpoint"`
		LastSyncAt     *time.Time `json:"last_sync_at"`
		LastSyncStatus *string    `json:"last_sync_status"`
	}{
		Status:         h.engine.Status(),
		Checkpoint:     memory.LastUpdateCheckpoint,
		LastSyncAt:     memory.LastSyncAt,
		LastSyncStatus: memory.LastSyncStatus,
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) listEvents(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListEventsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	events, total, err := h.eventService.ListEventsWithTotal(ctx, ListEventsOptions{
		Status: params.Status,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Events []*models.UpdateEvent `json:"events"`
		Total  int                   `json:"total"`
	}{events, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retryEvent(c echo.Context) error {
	ctx := c.Request().Context()

	event, err := h.engine.Retry(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, event))
}
