package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/clipdeck/clipdeck/pkg/authors"
	"github.com/clipdeck/clipdeck/pkg/binder"
	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/content"
	"github.com/clipdeck/clipdeck/pkg/contentsync"
	"github.com/clipdeck/clipdeck/pkg/episodes"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/favorites"
	"github.com/clipdeck/clipdeck/pkg/folders"
	"github.com/clipdeck/clipdeck/pkg/genres"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/pinned"
	"github.com/clipdeck/clipdeck/pkg/playlists"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/clipdeck/clipdeck/pkg/sharelogs"
	"github.com/clipdeck/clipdeck/pkg/stats"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, engine *contentsync.Engine) (*http.Server, error) {
	e, err := newEcho(cfg, db, engine)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, engine *contentsync.Engine) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	content.RegisterRoutesWithGroup(e.Group("/sounds"), db, cfg, models.ContentTypeSound)
	content.RegisterRoutesWithGroup(e.Group("/songs"), db, cfg, models.ContentTypeSong)
	authors.RegisterRoutesWithGroup(e.Group("/authors"), db, cfg)
	genres.RegisterRoutesWithGroup(e.Group("/genres"), db)
	folders.RegisterRoutesWithGroup(e.Group("/folders"), db)
	playlists.RegisterRoutesWithGroup(e.Group("/playlists"), db)
	favorites.RegisterRoutesWithGroup(e.Group("/favorites"), db)
	pinned.RegisterRoutesWithGroup(e.Group("/pinned"), db)
	episodes.RegisterRoutesWithGroup(e.Group("/episodes"), db)
	sharelogs.RegisterRoutesWithGroup(e.Group("/share-logs"), db, cfg)
	stats.RegisterRoutesWithGroup(e.Group("/stats"), db, cfg)
	settings.RegisterRoutesWithGroup(e.Group("/settings"), db)
	contentsync.RegisterRoutesWithGroup(e.Group("/sync"), db, engine)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
