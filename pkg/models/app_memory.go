package models

import (
	"time"

	"github.com/uptrace/bun"
)

// singletonID is the primary key of single-row tables.
const singletonID = 1

// AppMemory is what the app remembers between runs. There is only ever one
// row.
type AppMemory struct {
	bun.BaseModel `bun:"table:app_memory,alias:am"`

	ID                     int        `bun:",pk" json:"-"`
	InstallID              string     `bun:",notnull" json:"install_id"`
	LastUpdateCheckpoint   *time.Time `json:"last_update_checkpoint,omitempty"`
	HasImportedBundledData bool       `bun:",notnull" json:"has_imported_bundled_data"`
	LastSyncAt             *time.Time `json:"last_sync_at,omitempty"`
	LastSyncStatus         *string    `json:"last_sync_status,omitempty"`
	UpdatedAt              time.Time  `bun:",notnull" json:"updated_at"`
}

func NewAppMemory(installID string) *AppMemory {
	return &AppMemory{
		ID:        singletonID,
		InstallID: installID,
		UpdatedAt: time.Now(),
	}
}

const (
	ContentSortDateAddedDesc = "date_added_desc"
	ContentSortTitleAsc      = "title_asc"
	ContentSortAuthorAsc     = "author_asc"
	ContentSortShareCount    = "share_count_desc"
)

// Preferences are the user's typed settings. There is only ever one row.
type Preferences struct {
	bun.BaseModel `bun:"table:preferences,alias:pr"`

	ID                  int       `bun:",pk" json:"-"`
	ShowExplicitContent bool      `bun:",notnull" json:"show_explicit_content"`
	SoundSortOption     string    `bun:",notnull" json:"sound_sort_option"`
	SongSortOption      string    `bun:",notnull" json:"song_sort_option"`
	FolderSortOption    string    `bun:",notnull" json:"folder_sort_option"`
	UpdatedAt           time.Time `bun:",notnull" json:"updated_at"`
}

// DefaultPreferences returns the preferences used before the user changes
// anything.
func DefaultPreferences() *Preferences {
	return &Preferences{
		ID:                  singletonID,
		ShowExplicitContent: false,
		SoundSortOption:     ContentSortDateAddedDesc,
		SongSortOption:      ContentSortDateAddedDesc,
		FolderSortOption:    FolderSortDateAddedDesc,
	}
}
