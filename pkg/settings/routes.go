package settings

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		settingsService: NewService(db),
	}

	g.GET("", h.retrieve)
	g.PATCH("/preferences", h.updatePreferences)
}
