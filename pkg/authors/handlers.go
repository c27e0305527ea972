package authors

import (
	"net/http"

	"github.com/clipdeck/clipdeck/pkg/content"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	authorService  *Service
	contentService *content.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAuthorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	authors, total, err := h.authorService.ListAuthorsWithTotal(ctx, ListAuthorsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Search: params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"authors": authors,
		"total":   total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	author, err := h.authorService.RetrieveAuthor(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) sounds(c echo.Context) error {
	ctx := c.Request().Context()

	author, err := h.authorService.RetrieveAuthor(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	soundType := models.ContentTypeSound
	sounds, err := h.contentService.ListContent(ctx, content.ListContentOptions{
		ContentType:      &soundType,
		AuthorID:         &author.ID,
		IncludeOffensive: true,
		Sort:             models.ContentSortTitleAsc,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, sounds))
}
