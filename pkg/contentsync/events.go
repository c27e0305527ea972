package contentsync

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListEventsOptions struct {
	Status *string
	Limit  *int
	Offset *int

	includeTotal bool
}

// EventService reads and writes the local update event log. Rows are never
// deleted.
type EventService struct {
	db bun.IDB
}

func NewEventService(db bun.IDB) *EventService {
	return &EventService{db}
}

// RecordPending stores a freshly fetched event. An event that is already
// recorded is left as it is.
func (svc *EventService) RecordPending(ctx context.Context, event *models.UpdateEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := svc.db.NewInsert().
		Model(event).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return errors.WithStack(err)
}

// MarkAttempt records the outcome of one apply attempt.
func (svc *EventService) MarkAttempt(ctx context.Context, id string, succeeded bool) error {
	_, err := svc.db.NewUpdate().
		Model((*models.UpdateEvent)(nil)).
		Set("did_succeed = ?", succeeded).
		Set("attempts = attempts + 1").
		Set("last_attempt_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}

// GetEvent returns nil without an error when the event was never recorded.
func (svc *EventService) GetEvent(ctx context.Context, id string) (*models.UpdateEvent, error) {
	event, err := svc.RetrieveEvent(ctx, id)
	if errcodes.HasCode(err, errcodes.CodeNotFound) {
		return nil, nil
	}
	return event, err
}

func (svc *EventService) RetrieveEvent(ctx context.Context, id string) (*models.UpdateEvent, error) {
	event := &models.UpdateEvent{}
	err := svc.db.NewSelect().
		Model(event).
		Where("ue.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Update event")
		}
		return nil, errors.WithStack(err)
	}
	return event, nil
}

func (svc *EventService) ListEvents(ctx context.Context, opts ListEventsOptions) ([]*models.UpdateEvent, error) {
	e, _, err := svc.listEventsWithTotal(ctx, opts)
	return e, errors.WithStack(err)
}

func (svc *EventService) ListEventsWithTotal(ctx context.Context, opts ListEventsOptions) ([]*models.UpdateEvent, int, error) {
	opts.includeTotal = true
	return svc.listEventsWithTotal(ctx, opts)
}

func (svc *EventService) listEventsWithTotal(ctx context.Context, opts ListEventsOptions) ([]*models.UpdateEvent, int, error) {
	events := []*models.UpdateEvent{}
	var total int
	var err error

	q := svc.db.NewSelect().
		Model(&events).
		Order("ue.date_time DESC", "ue.created_at DESC")

	if opts.Status != nil {
		switch *opts.Status {
		case models.UpdateEventStatusPending:
			q = q.Where("ue.did_succeed IS NULL")
		case models.UpdateEventStatusSucceeded:
			q = q.Where("ue.did_succeed = ?", true)
		case models.UpdateEventStatusFailed:
			q = q.Where("ue.did_succeed = ?", false)
		}
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
	return events, total, nil
}

func (svc *EventService) CountEvents(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().Model((*models.UpdateEvent)(nil)).Count(ctx)
	return count, errors.WithStack(err)
}
