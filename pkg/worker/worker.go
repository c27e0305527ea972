package worker

import (
	"context"
	"sync"
	"time"

	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/contentsync"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// TaskIdentifier names the periodic refresh wherever it is scheduled.
const TaskIdentifier = "clipdeck.sync.refresh"

type Syncer interface {
	Sync(ctx context.Context) (*contentsync.Result, error)
}

// Worker runs the sync engine on a fixed interval until Shutdown.
type Worker struct {
	config   *config.Config
	log      logger.Logger
	syncer   Syncer
	reporter CompletionReporter

	interval time.Duration
	budget   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	nextRun time.Time

	shutdown       chan struct{}
	doneScheduling chan struct{}
	shutdownOnce   sync.Once
}

// New returns a worker. A nil reporter logs completions.
func New(cfg *config.Config, syncer Syncer, reporter CompletionReporter) *Worker {
	if reporter == nil {
		reporter = LogReporter{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		config:   cfg,
		log:      logger.New(),
		syncer:   syncer,
		reporter: reporter,

		interval: cfg.SyncInterval(),
		budget:   cfg.BackgroundTaskBudget,

		ctx:    ctx,
		cancel: cancel,

		shutdown:       make(chan struct{}),
		doneScheduling: make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go w.schedule()
}

// NextRun is when the next periodic run is due. It is zero when periodic
// runs are disabled.
func (w *Worker) NextRun() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.nextRun
}

func (w *Worker) setNextRun(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextRun = t
}

func (w *Worker) schedule() {
	if w.interval <= 0 {
		w.log.Info("periodic sync disabled")
		<-w.shutdown
		w.doneScheduling <- struct{}{}
		return
	}

	timer := time.NewTimer(w.interval)
	w.setNextRun(time.Now().Add(w.interval))

	for {
		select {
		case <-w.shutdown:
			timer.Stop()
			w.doneScheduling <- struct{}{}
			return
		case <-timer.C:
			if w.ctx.Err() != nil {
				continue
			}
			// Book the next run before this one starts.
			timer.Reset(w.interval)
			w.setNextRun(time.Now().Add(w.interval))

			// The outcome goes to the reporter.
			w.RunOnce(w.ctx) //nolint:errcheck
		}
	}
}

// RunOnce performs one background refresh within the task budget and
// reports how it went. When the budget runs out the sync is cancelled
// between events.
func (w *Worker) RunOnce(ctx context.Context) error {
	id, err := uuid.NewRandom()
	if err != nil {
		w.log.Err(err).Error("new uuid error")
		return errors.WithStack(err)
	}
	log := w.log.ID(id.String()).Root(logger.Data{"task": TaskIdentifier})
	ctx = log.WithContext(ctx)

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if w.budget > 0 {
		runCtx, cancel = context.WithTimeout(ctx, w.budget)
	}
	defer cancel()

	started := time.Now()
	result, err := w.syncer.Sync(runCtx)

	w.reporter.TaskCompleted(context.WithoutCancel(ctx), Completion{
		Identifier: TaskIdentifier,
		Success:    err == nil,
		Expired:    errors.Is(runCtx.Err(), context.DeadlineExceeded),
		Duration:   time.Since(started),
		Result:     result,
		Err:        err,
	})
	return err
}

// Shutdown cancels a run in flight and waits for the scheduler to stop.
// Later calls return immediately.
func (w *Worker) Shutdown() {
	w.shutdownOnce.Do(func() {
		w.cancel()
		close(w.shutdown)
		<-w.doneScheduling
	})
}
