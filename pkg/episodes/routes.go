package episodes

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		episodeService: NewService(db),
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id/progress", h.saveProgress)
	g.GET("/:id/bookmarks", h.bookmarks)
	g.POST("/:id/bookmarks", h.createBookmark)
	g.DELETE("/:id/bookmarks/:bookmarkId", h.deleteBookmark)
}
