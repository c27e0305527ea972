package contentsync

import (
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/clipdeck/clipdeck/pkg/synclogs"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the foreground sync trigger and the sync
// diagnostics routes.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, engine *Engine) {
	h := &handler{
		engine:          engine,
		eventService:    NewEventService(db),
		settingsService: settings.NewService(db),
	}

	g.POST("", h.sync)
	g.GET("/status", h.status)
	g.GET("/events", h.listEvents)
	g.POST("/events/:id/retry", h.retryEvent)

	synclogs.RegisterRoutes(g, db)
}
