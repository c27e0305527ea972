package stats

import (
	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		statsService: NewService(db, cfg.Locale),
	}

	g.GET("/top-sounds", h.topSounds)
	g.GET("/top-authors", h.topAuthors)
	g.GET("/totals", h.totals)
	g.GET("/weekday", h.weekday)
	g.GET("/by-day", h.byDay)
	g.GET("/retrospective", h.retrospective)
}
