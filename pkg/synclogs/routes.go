package synclogs

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers sync log routes on the sync group.
func RegisterRoutes(syncGroup *echo.Group, db *bun.DB) {
	h := &handler{
		syncLogService: NewService(db),
	}

	// GET /sync/logs
	syncGroup.GET("/logs", h.listLogs)
}
