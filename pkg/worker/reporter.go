package worker

import (
	"context"
	"time"

	"github.com/clipdeck/clipdeck/pkg/contentsync"
	"github.com/robinjoseph08/golib/logger"
)

// Completion describes how one background run ended.
type Completion struct {
	Identifier string
	Success    bool
	Expired    bool
	Duration   time.Duration
	Result     *contentsync.Result
	Err        error
}

// CompletionReporter is told about every background run so whoever
// schedules the task can budget future runs.
type CompletionReporter interface {
	TaskCompleted(ctx context.Context, c Completion)
}

// LogReporter writes completions to the request logger in ctx. The engine
// itself records the run in app memory.
type LogReporter struct{}

func (LogReporter) TaskCompleted(ctx context.Context, c Completion) {
	log := logger.FromContext(ctx)

	data := logger.Data{
		"task":     c.Identifier,
		"expired":  c.Expired,
		"duration": c.Duration.String(),
	}
	if c.Result != nil {
		data["applied"] = c.Result.Applied
		data["failed"] = c.Result.Failed
	}

	if !c.Success {
		log.Err(c.Err).Warn("background task failed", data)
		return
	}
	log.Info("background task completed", data)
}
