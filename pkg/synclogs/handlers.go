package synclogs

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	syncLogService *Service
}

func (h *handler) listLogs(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSyncLogsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	logs, err := h.syncLogService.ListSyncLogs(ctx, ListSyncLogsOptions{
		UpdateEventID: params.UpdateEventID,
		AfterID:       params.AfterID,
		Levels:        params.Level,
		Limit:         &params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Logs interface{} `json:"logs"`
	}{logs}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
