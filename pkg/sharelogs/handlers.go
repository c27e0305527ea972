package sharelogs

import (
	"net/http"

	"github.com/clipdeck/clipdeck/pkg/content"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	shareLogService *Service
	contentService  *content.Service
	settingsService *settings.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListShareLogsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	logs, total, err := h.shareLogService.ListShareLogsWithTotal(ctx, ListShareLogsOptions{
		ContentID: params.ContentID,
		Limit:     &params.Limit,
		Offset:    &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		ShareLogs []*models.ShareLog `json:"share_logs"`
		Total     int                `json:"total"`
	}{logs, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateShareLogPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	shared, err := h.contentService.RetrieveContent(ctx, params.ContentID)
	if err != nil {
		return errors.WithStack(err)
	}

	playable, err := shared.AsPlayable()
	if err != nil {
		return errors.WithStack(err)
	}

	memory, err := h.settingsService.RetrieveAppMemory(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	entry := &models.ShareLog{
		InstallID:   memory.InstallID,
		ContentID:   shared.ID,
		ContentType: models.ShareContentType(playable),
		Destination: params.Destination,
	}
	if err := h.shareLogService.Record(ctx, entry); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, entry))
}
