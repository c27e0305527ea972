package sharelogs

import (
	"context"
	"time"

	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListShareLogsOptions struct {
	ContentID *string
	Since     *time.Time
	Limit     *int
	Offset    *int

	includeTotal bool
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// Record appends a share to the log. Entries are never updated except for
// the sent flag.
func (svc *Service) Record(ctx context.Context, entry *models.ShareLog) error {
	if entry.DateTime.IsZero() {
		entry.DateTime = time.Now().UTC()
	}
	entry.SentToServer = false

	_, err := svc.db.
		NewInsert().
		Model(entry).
		Returning("*").
		Exec(ctx)
	return database.ClassifyError(err, "Share log")
}

func (svc *Service) ListShareLogs(ctx context.Context, opts ListShareLogsOptions) ([]*models.ShareLog, error) {
	l, _, err := svc.listShareLogsWithTotal(ctx, opts)
	return l, errors.WithStack(err)
}

func (svc *Service) ListShareLogsWithTotal(ctx context.Context, opts ListShareLogsOptions) ([]*models.ShareLog, int, error) {
	opts.includeTotal = true
	return svc.listShareLogsWithTotal(ctx, opts)
}

func (svc *Service) listShareLogsWithTotal(ctx context.Context, opts ListShareLogsOptions) ([]*models.ShareLog, int, error) {
	logs := []*models.ShareLog{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&logs).
		Order("sl.date_time DESC", "sl.id DESC")

	if opts.ContentID != nil {
		q = q.Where("sl.content_id = ?", *opts.ContentID)
	}
	if opts.Since != nil {
		q = q.Where("sl.date_time >= ?", *opts.Since)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return logs, total, nil
}

// ListUnsent returns the oldest entries not yet uploaded, at most limit of
// them.
func (svc *Service) ListUnsent(ctx context.Context, limit int) ([]*models.ShareLog, error) {
	logs := []*models.ShareLog{}
	err := svc.db.
		NewSelect().
		Model(&logs).
		Where("sl.sent_to_server = ?", false).
		Order("sl.id ASC").
		Limit(limit).
		Scan(ctx)
	return logs, errors.WithStack(err)
}

// MarkSent flips the sent flag of the given entries. Entries that were
// already sent are left alone.
func (svc *Service) MarkSent(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := svc.db.
		NewUpdate().
		Model((*models.ShareLog)(nil)).
		Set("sent_to_server = ?", true).
		Where("id IN (?)", bun.In(ids)).
		Where("sent_to_server = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	return int(n), errors.WithStack(err)
}
