package favorites

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		favoriteService: NewService(db),
	}

	g.GET("", h.list)
	g.PUT("/:contentId", h.add)
	g.DELETE("/:contentId", h.remove)
}
