package episodes

import (
	"net/http"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	episodeService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListEpisodesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	episodes, total, err := h.episodeService.ListEpisodesWithTotal(ctx, ListEpisodesOptions{
		Limit:     &params.Limit,
		Offset:    &params.Offset,
		PodcastID: params.PodcastID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Episodes []*models.Episode `json:"episodes"`
		Total    int               `json:"total"`
	}{episodes, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	episode, err := h.episodeService.RetrieveEpisode(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, episode))
}

func (h *handler) bookmarks(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if _, err := h.episodeService.RetrieveEpisode(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	bookmarks, err := h.episodeService.ListBookmarks(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, bookmarks))
}

func (h *handler) createBookmark(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookmarkPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	bookmark := &models.EpisodeBookmark{
		EpisodeID:        c.Param("id"),
		TimestampSeconds: params.TimestampSeconds,
		Title:            params.Title,
		Description:      params.Description,
	}
	if err := h.episodeService.CreateBookmark(ctx, bookmark); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, bookmark))
}

func (h *handler) deleteBookmark(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.episodeService.DeleteBookmark(ctx, c.Param("bookmarkId")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) saveProgress(c echo.Context) error {
	ctx := c.Request().Context()

	params := SaveProgressPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	progress, err := h.episodeService.SaveProgress(ctx, c.Param("id"), params.CurrentSeconds, params.DurationSeconds)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, progress))
}
