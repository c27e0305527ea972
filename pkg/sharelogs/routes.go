package sharelogs

import (
	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/content"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		shareLogService: NewService(db),
		contentService:  content.NewService(db, cfg.SoundsDir),
		settingsService: settings.NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create)
}
