package folders

import (
	"net/http"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	folderService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	folders, err := h.folderService.ListFolders(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, folders))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateFolderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	folder := &models.UserFolder{
		Symbol:          params.Symbol,
		Name:            params.Name,
		BackgroundColor: params.BackgroundColor,
		SortPreference:  params.SortPreference,
	}
	if err := h.folderService.CreateFolder(ctx, folder); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, folder))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	folder, err := h.folderService.RetrieveFolder(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, folder))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateFolderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	folder, err := h.folderService.RetrieveFolder(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	var columns []string
	if params.Symbol != nil && *params.Symbol != folder.Symbol {
		folder.Symbol = *params.Symbol
		columns = append(columns, "symbol")
	}
	if params.Name != nil && *params.Name != folder.Name {
		folder.Name = *params.Name
		columns = append(columns, "name")
	}
	if params.BackgroundColor != nil && *params.BackgroundColor != folder.BackgroundColor {
		folder.BackgroundColor = *params.BackgroundColor
		columns = append(columns, "background_color")
	}
	if params.SortPreference != nil && *params.SortPreference != folder.SortPreference {
		folder.SortPreference = *params.SortPreference
		columns = append(columns, "sort_preference")
	}

	err = h.folderService.UpdateFolder(ctx, folder, UpdateFolderOptions{Columns: columns})
	if err != nil {
		return errors.WithStack(err)
	}

	folder, err = h.folderService.RetrieveFolder(ctx, folder.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, folder))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.folderService.DeleteFolder(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) contents(c echo.Context) error {
	ctx := c.Request().Context()

	contents, err := h.folderService.ListContents(ctx, c.Param("id"))
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

	added, err := h.folderService.AddContent(ctx, c.Param("id"), params.ContentID)
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

	_, err := h.folderService.RemoveContent(ctx, c.Param("id"), c.Param("contentId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
