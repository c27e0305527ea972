package content

import (
	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the read routes for one content type on a
// pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, contentType string) {
	h := &handler{
		contentType:     contentType,
		contentService:  NewService(db, cfg.SoundsDir),
		settingsService: settings.NewService(db),
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/file", h.file)
}
