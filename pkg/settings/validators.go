package settings

import (
	"time"

	"github.com/clipdeck/clipdeck/pkg/models"
)

type UpdatePreferencesPayload struct {
	ShowExplicitContent *bool   `json:"show_explicit_content,omitempty"`
	SoundSortOption     *string `json:"sound_sort_option,omitempty" validate:"omitempty,sort_option"`
	SongSortOption      *string `json:"song_sort_option,omitempty" validate:"omitempty,sort_option"`
	FolderSortOption    *string `json:"folder_sort_option,omitempty" validate:"omitempty,oneof=date_added_desc title_asc author_asc"`
}

type SyncStatus struct {
	LastUpdateCheckpoint *time.Time `json:"last_update_checkpoint"`
	LastSyncAt           *time.Time `json:"last_sync_at"`
	LastSyncStatus       *string    `json:"last_sync_status"`
}

type SettingsResponse struct {
	InstallID   string              `json:"install_id"`
	Preferences *models.Preferences `json:"preferences"`
	Sync        SyncStatus          `json:"sync"`
}
