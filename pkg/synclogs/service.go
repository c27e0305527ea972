package synclogs

import (
	"context"
	"runtime"
	"time"

	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListSyncLogsOptions struct {
	UpdateEventID *string
	AfterID       *int
	Levels        []string
	Limit         *int
}

// Device identifies where a sync log entry was written.
type Device struct {
	SystemName    string
	SystemVersion string
	AppVersion    string
	DeviceModel   string
}

func DeviceFromConfig(cfg *config.Config) Device {
	return Device{
		SystemName:    runtime.GOOS,
		SystemVersion: runtime.Version(),
		AppVersion:    cfg.AppVersion,
		DeviceModel:   cfg.DeviceModel,
	}
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateSyncLog(ctx context.Context, log *models.SyncLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := svc.db.
		NewInsert().
		Model(log).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) ListSyncLogs(ctx context.Context, opts ListSyncLogsOptions) ([]*models.SyncLog, error) {
	logs := []*models.SyncLog{}

	q := svc.db.
		NewSelect().
		Model(&logs).
		Order("syl.id ASC")

	if opts.UpdateEventID != nil {
		q = q.Where("syl.update_event_id = ?", *opts.UpdateEventID)
	}

	if opts.AfterID != nil {
		q = q.Where("syl.id > ?", *opts.AfterID)
	}

	if len(opts.Levels) > 0 {
		q = q.Where("syl.level IN (?)", bun.In(opts.Levels))
	}

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return logs, nil
}
