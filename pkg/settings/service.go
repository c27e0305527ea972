package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type UpdateOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db: db}
}

// EnsureAppMemory creates the app memory row on first run. installID is used
// when set, otherwise a random one is generated. An existing row is returned
// unchanged.
func (svc *Service) EnsureAppMemory(ctx context.Context, installID string) (*models.AppMemory, error) {
	if installID == "" {
		installID = uuid.NewString()
	}
	memory := models.NewAppMemory(installID)

	_, err := svc.db.NewInsert().
		Model(memory).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return svc.RetrieveAppMemory(ctx)
}

// RetrieveAppMemory returns the app memory, creating it if this is the first
// time it is needed.
func (svc *Service) RetrieveAppMemory(ctx context.Context) (*models.AppMemory, error) {
	memory := &models.AppMemory{}
	err := svc.db.NewSelect().
		Model(memory).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return svc.EnsureAppMemory(ctx, "")
		}
		return nil, errors.WithStack(err)
	}
	return memory, nil
}

func (svc *Service) UpdateAppMemory(ctx context.Context, memory *models.AppMemory, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	memory.UpdatedAt = time.Now()
	columns := append(append([]string{}, opts.Columns...), "updated_at")

	_, err := svc.db.NewUpdate().
		Model(memory).
		Column(columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// RetrievePreferences returns the stored preferences or the defaults when the
// user never changed anything.
func (svc *Service) RetrievePreferences(ctx context.Context) (*models.Preferences, error) {
	prefs := &models.Preferences{}
	err := svc.db.NewSelect().
		Model(prefs).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultPreferences(), nil
		}
		return nil, errors.WithStack(err)
	}
	return prefs, nil
}

// UpdatePreferences stores every preference, creating the row if needed.
func (svc *Service) UpdatePreferences(ctx context.Context, prefs *models.Preferences) error {
	prefs.ID = models.DefaultPreferences().ID
	prefs.UpdatedAt = time.Now()

	_, err := svc.db.NewInsert().
		Model(prefs).
		On("CONFLICT (id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("show_explicit_content = EXCLUDED.show_explicit_content").
		Set("sound_sort_option = EXCLUDED.sound_sort_option").
		Set("song_sort_option = EXCLUDED.song_sort_option").
		Set("folder_sort_option = EXCLUDED.folder_sort_option").
		Exec(ctx)
	return errors.WithStack(err)
}
