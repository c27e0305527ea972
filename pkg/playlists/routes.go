package playlists

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers playlist routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		playlistService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/contents", h.contents)
	g.POST("/:id/contents", h.addContent)
	g.PUT("/:id/contents/order", h.reorder)
	g.DELETE("/:id/contents/:contentId", h.removeContent)
}
