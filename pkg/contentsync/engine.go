package contentsync

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/errcodes"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/clipdeck/clipdeck/pkg/sharelogs"
	"github.com/clipdeck/clipdeck/pkg/synclogs"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"golang.org/x/sync/singleflight"
)

type State string

const (
	StateIdle           State = "idle"
	StateFetchingEvents State = "fetching_events"
	StateApplyingEvents State = "applying_events"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Values stored in app_memory.last_sync_status.
const (
	RunStatusSucceeded = "succeeded"
	RunStatusPartial   = "completed_with_failures"
	RunStatusFailed    = "failed"
)

const shareLogBatchSize = 500

type outcome int

const (
	outcomeApplied outcome = iota
	outcomeSkipped
	outcomeFailed
	outcomeAbandoned
)

// Result summarizes one sync run.
type Result struct {
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     time.Time  `json:"finished_at"`
	Fetched        int        `json:"fetched"`
	Applied        int        `json:"applied"`
	Skipped        int        `json:"skipped"`
	Failed         int        `json:"failed"`
	Abandoned      int        `json:"abandoned"`
	SharesUploaded int        `json:"shares_uploaded"`
	Checkpoint     *time.Time `json:"checkpoint,omitempty"`
}

// Status is a snapshot of the engine.
type Status struct {
	State      State   `json:"state"`
	LastError  *string `json:"last_error,omitempty"`
	LastResult *Result `json:"last_result,omitempty"`
}

// Engine reconciles the local store with the content server's event feed.
// At most one run is in flight; concurrent callers of Sync share it.
type Engine struct {
	db       *bun.DB
	feed     Feed
	cfg      *config.Config
	log      logger.Logger
	device   synclogs.Device
	syncLogs *synclogs.Service

	group singleflight.Group
	runMu sync.Mutex

	mu         sync.RWMutex
	state      State
	lastErr    error
	lastResult *Result
}

func NewEngine(db *bun.DB, feed Feed, cfg *config.Config) *Engine {
	return &Engine{
		db:       db,
		feed:     feed,
		cfg:      cfg,
		log:      logger.New(),
		device:   synclogs.DeviceFromConfig(cfg),
		syncLogs: synclogs.NewService(db),
		state:    StateIdle,
	}
}

func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Status{State: e.state, LastResult: e.lastResult}
	if e.lastErr != nil {
		msg := e.lastErr.Error()
		s.LastError = &msg
	}
	return s
}

func (e *Engine) setState(state State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
}

func (e *Engine) finish(state State, result *Result, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
	e.lastResult = result
	e.lastErr = err
}

// fetchContext bounds a single request to the content server.
func (e *Engine) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.FetchTimeout)
}

// Sync runs one reconciliation pass. A call made while a run is in flight
// waits for that run and gets its result instead of starting another. The
// run can be cancelled through ctx between events only.
func (e *Engine) Sync(ctx context.Context) (*Result, error) {
	v, err, _ := e.group.Do("sync", func() (interface{}, error) {
		return e.run(ctx)
	})
	result, _ := v.(*Result)
	return result, err
}

func (e *Engine) run(ctx context.Context) (*Result, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	result := &Result{StartedAt: time.Now()}
	slog := e.syncLogs.NewSyncLogger(ctx, e.device, e.log)
	settingsService := settings.NewService(e.db)
	events := NewEventService(e.db)

	e.setState(StateFetchingEvents)

	memory, err := settingsService.RetrieveAppMemory(ctx)
	if err != nil {
		return e.fail(ctx, slog, result, err)
	}
	result.Checkpoint = memory.LastUpdateCheckpoint

	fetchCtx, cancel := e.fetchContext(ctx)
	fetched, err := e.feed.FetchUpdateEvents(fetchCtx, memory.LastUpdateCheckpoint)
	cancel()
	if err != nil {
		if !errcodes.HasCode(err, errcodes.CodeFetchError) {
			err = errcodes.FetchError(err)
		}
		return e.fail(ctx, slog, result, err)
	}
	result.Fetched = len(fetched)

	e.setState(StateApplyingEvents)

	stalled := false
	for _, event := range fetched {
		if err := ctx.Err(); err != nil {
			return e.fail(ctx, slog, result, errors.WithStack(err))
		}

		out, err := e.processEvent(ctx, slog, events, event)
		if err != nil {
			return e.fail(ctx, slog, result, err)
		}

		switch out {
		case outcomeApplied:
			result.Applied++
		case outcomeSkipped:
			result.Skipped++
		case outcomeAbandoned:
			result.Abandoned++
		case outcomeFailed:
			result.Failed++
			stalled = true
		}

		if stalled {
			continue
		}
		if result.Checkpoint == nil || event.DateTime.After(*result.Checkpoint) {
			checkpoint := event.DateTime
			memory.LastUpdateCheckpoint = &checkpoint
			err := settingsService.UpdateAppMemory(context.WithoutCancel(ctx), memory, settings.UpdateOptions{
				Columns: []string{"last_update_checkpoint"},
			})
			if err != nil {
				return e.fail(ctx, slog, result, err)
			}
			result.Checkpoint = &checkpoint
		}
	}

	if ctx.Err() == nil {
		result.SharesUploaded = e.uploadShareLogs(ctx, slog)
	}

	status := RunStatusSucceeded
	if result.Failed > 0 || result.Abandoned > 0 {
		status = RunStatusPartial
	}
	result.FinishedAt = time.Now()
	e.recordRun(ctx, settingsService, memory, status, result.FinishedAt)

	slog.Info("sync finished", logger.Data{
		"fetched":   result.Fetched,
		"applied":   result.Applied,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
		"abandoned": result.Abandoned,
		"shares":    result.SharesUploaded,
	})

	e.finish(StateDone, result, nil)
	return result, nil
}

// fail ends the run. Events applied so far stay applied and the checkpoint
// stays wherever they moved it.
func (e *Engine) fail(ctx context.Context, slog *synclogs.SyncLogger, result *Result, err error) (*Result, error) {
	result.FinishedAt = time.Now()
	slog.Error("sync failed", err, logger.Data{"applied": result.Applied})

	settingsService := settings.NewService(e.db)
	if memory, memErr := settingsService.RetrieveAppMemory(context.WithoutCancel(ctx)); memErr == nil {
		e.recordRun(ctx, settingsService, memory, RunStatusFailed, result.FinishedAt)
	}

	e.finish(StateFailed, result, err)
	return result, err
}

func (e *Engine) recordRun(ctx context.Context, svc *settings.Service, memory *models.AppMemory, status string, at time.Time) {
	memory.LastSyncAt = &at
	memory.LastSyncStatus = &status
	err := svc.UpdateAppMemory(context.WithoutCancel(ctx), memory, settings.UpdateOptions{
		Columns: []string{"last_sync_at", "last_sync_status"},
	})
	if err != nil {
		e.log.Err(err).Error("failed to record sync run")
	}
}

// processEvent applies one fetched event unless an earlier run already
// settled it. Only errors that make the store itself unusable are returned;
// a failed apply is an outcome.
func (e *Engine) processEvent(ctx context.Context, slog *synclogs.SyncLogger, events *EventService, event *models.UpdateEvent) (outcome, error) {
	storeCtx := context.WithoutCancel(ctx)

	existing, err := events.GetEvent(storeCtx, event.ID)
	if err != nil {
		return outcomeFailed, err
	}
	if existing != nil {
		if existing.DidSucceed != nil && *existing.DidSucceed {
			return outcomeSkipped, nil
		}
		if existing.DidSucceed != nil && existing.Attempts >= e.cfg.SyncMaxEventAttempts {
			return outcomeSkipped, nil
		}
		event = existing
	} else if err := events.RecordPending(storeCtx, event); err != nil {
		return outcomeFailed, err
	}

	return e.applyEvent(ctx, slog, events, event)
}

func (e *Engine) applyEvent(ctx context.Context, slog *synclogs.SyncLogger, events *EventService, event *models.UpdateEvent) (outcome, error) {
	elog := slog.ForEvent(event.ID)

	p, err := e.prepare(ctx, event)
	if err != nil {
		if ctx.Err() != nil {
			// Abandoned before anything was written; the event stays as it was.
			return outcomeFailed, errors.WithStack(ctx.Err())
		}
		return e.recordFailure(ctx, elog, events, event, err)
	}

	storeCtx := context.WithoutCancel(ctx)
	err = e.db.RunInTx(storeCtx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := e.commit(ctx, tx, event, p); err != nil {
			return err
		}
		return NewEventService(tx).MarkAttempt(ctx, event.ID, true)
	})
	if err != nil {
		return e.recordFailure(ctx, elog, events, event, err)
	}

	e.log.Debug("applied update event", logger.Data{
		"update_event_id": event.ID,
		"media_type":      event.MediaType,
		"event_type":      event.EventType,
		"content_id":      event.ContentID,
	})
	return outcomeApplied, nil
}

func (e *Engine) recordFailure(ctx context.Context, elog *synclogs.SyncLogger, events *EventService, event *models.UpdateEvent, cause error) (outcome, error) {
	if err := events.MarkAttempt(context.WithoutCancel(ctx), event.ID, false); err != nil {
		return outcomeFailed, err
	}

	attempts := event.Attempts + 1
	data := logger.Data{
		"media_type": event.MediaType,
		"event_type": event.EventType,
		"content_id": event.ContentID,
		"attempts":   attempts,
	}

	if attempts >= e.cfg.SyncMaxEventAttempts {
		elog.Error("giving up on update event", cause, data)
		return outcomeAbandoned, nil
	}
	elog.Error("failed to apply update event", cause, data)
	return outcomeFailed, nil
}

// uploadShareLogs sends unsent share log entries to the server. Failures are
// logged and retried on the next run.
func (e *Engine) uploadShareLogs(ctx context.Context, slog *synclogs.SyncLogger) int {
	shareLogs := sharelogs.NewService(e.db)

	unsent, err := shareLogs.ListUnsent(ctx, shareLogBatchSize)
	if err != nil {
		slog.Warn("failed to list unsent share logs", logger.Data{"error": err.Error()})
		return 0
	}
	if len(unsent) == 0 {
		return 0
	}

	fetchCtx, cancel := e.fetchContext(ctx)
	err = e.feed.PostShareLogs(fetchCtx, unsent)
	cancel()
	if err != nil {
		slog.Warn("failed to upload share logs", logger.Data{"count": len(unsent), "error": err.Error()})
		return 0
	}

	ids := make([]int, len(unsent))
	for i, l := range unsent {
		ids[i] = l.ID
	}
	n, err := shareLogs.MarkSent(context.WithoutCancel(ctx), ids)
	if err != nil {
		slog.Warn("failed to mark share logs as sent", logger.Data{"error": err.Error()})
	}
	return n
}

// Retry applies a single failed or pending event again, ignoring the attempt
// limit. It refuses to run while a sync is in flight.
func (e *Engine) Retry(ctx context.Context, eventID string) (*models.UpdateEvent, error) {
	if !e.runMu.TryLock() {
		return nil, errcodes.SyncInProgress()
	}
	defer e.runMu.Unlock()

	events := NewEventService(e.db)
	event, err := events.RetrieveEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.DidSucceed != nil && *event.DidSucceed {
		return event, nil
	}

	slog := e.syncLogs.NewSyncLogger(ctx, e.device, e.log)
	if _, err := e.applyEvent(ctx, slog, events, event); err != nil {
		return nil, err
	}

	return events.RetrieveEvent(context.WithoutCancel(ctx), eventID)
}
