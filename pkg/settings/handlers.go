package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	settingsService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	memory, err := h.settingsService.RetrieveAppMemory(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	prefs, err := h.settingsService.RetrievePreferences(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, SettingsResponse{
		InstallID:   memory.InstallID,
		Preferences: prefs,
		Sync: SyncStatus{
			LastUpdateCheckpoint: memory.LastUpdateCheckpoint,
			LastSyncAt:           memory.LastSyncAt,
			LastSyncStatus:       memory.LastSyncStatus,
		},
	}))
}

func (h *handler) updatePreferences(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdatePreferencesPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	prefs, err := h.settingsService.RetrievePreferences(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if params.ShowExplicitContent != nil {
		prefs.ShowExplicitContent = *params.ShowExplicitContent
	}
	if params.SoundSortOption != nil {
		prefs.SoundSortOption = *params.SoundSortOption
	}
	if params.SongSortOption != nil {
		prefs.SongSortOption = *params.SongSortOption
	}
	if params.FolderSortOption != nil {
		prefs.FolderSortOption = *params.FolderSortOption
	}

	if err := h.settingsService.UpdatePreferences(ctx, prefs); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, prefs))
}
