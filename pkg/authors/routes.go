package authors

import (
	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/content"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers author routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		authorService:  NewService(db),
		contentService: content.NewService(db, cfg.SoundsDir),
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/sounds", h.sounds)
}
