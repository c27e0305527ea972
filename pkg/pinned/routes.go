package pinned

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		pinnedService: NewService(db),
	}

	g.GET("", h.list)
	g.PUT("/:contentId", h.pin)
	g.DELETE("/:contentId", h.unpin)
}
