package playlists

import (
	"net/http"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	playlistService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	playlists, err := h.playlistService.ListPlaylists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, playlists))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreatePlaylistPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	playlist := &models.Playlist{Name: params.Name}
	if err := h.playlistService.CreatePlaylist(ctx, playlist); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, playlist))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	playlist, err := h.playlistService.RetrievePlaylist(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, playlist))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdatePlaylistPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	id := c.Param("id")
	if err := h.playlistService.RenamePlaylist(ctx, id, params.Name); err != nil {
		return errors.WithStack(err)
	}

	playlist, err := h.playlistService.RetrievePlaylist(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, playlist))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.playlistService.DeletePlaylist(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) contents(c echo.Context) error {
	ctx := c.Request().Context()

	contents, err := h.playlistService.ListContents(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, contents))
}

func (h *handler) addContent(c echo.Context) error {
	ctx := c.Request().Context()

	params := AddContentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	added, err := h.playlistService.AddContent(ctx, c.Param("id"), params.ContentID)
	if err != nil {
		return errors.WithStack(err)
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	return errors.WithStack(c.JSON(status, map[string]any{"added": added}))
}

func (h *handler) removeContent(c echo.Context) error {
	ctx := c.Request().Context()

	_, err := h.playlistService.RemoveContent(ctx, c.Param("id"), c.Param("contentId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) reorder(c echo.Context) error {
	ctx := c.Request().Context()

	params := ReorderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	id := c.Param("id")
	if err := h.playlistService.Reorder(ctx, id, params.ContentIDs); err != nil {
		return errors.WithStack(err)
	}

	contents, err := h.playlistService.ListContents(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, contents))
}
