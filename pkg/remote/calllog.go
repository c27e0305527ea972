package remote

import (
	"context"
	"time"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// CallLogService persists one row per request made to the content server.
type CallLogService struct {
	db bun.IDB
}

func NewCallLogService(db bun.IDB) *CallLogService {
	return &CallLogService{db}
}

func (svc *CallLogService) Record(ctx context.Context, call *models.NetworkCallLog) error {
	if call.CallDate.IsZero() {
		call.CallDate = time.Now()
	}
	_, err := svc.db.NewInsert().Model(call).Exec(ctx)
	return errors.WithStack(err)
}

// ListRecent returns the latest calls, newest first.
func (svc *CallLogService) ListRecent(ctx context.Context, limit int) ([]*models.NetworkCallLog, error) {
	calls := []*models.NetworkCallLog{}
	err := svc.db.NewSelect().
		Model(&calls).
		Order("ncl.id DESC").
		Limit(limit).
		Scan(ctx)
	return calls, errors.WithStack(err)
}
