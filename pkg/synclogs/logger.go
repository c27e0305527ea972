package synclogs

import (
	"context"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const maxDataValueLen = 1024

// SyncLogger writes sync diagnostics to both stdout and the sync log.
type SyncLogger struct {
	service *Service
	device  Device
	log     logger.Logger
	ctx     context.Context
	eventID *string
}

// NewSyncLogger creates a SyncLogger. Rows are written with a context that
// is never cancelled so that a log entry about a cancelled run still lands.
func (svc *Service) NewSyncLogger(ctx context.Context, device Device, log logger.Logger) *SyncLogger {
	return &SyncLogger{
		service: svc,
		device:  device,
		log:     log,
		ctx:     context.WithoutCancel(ctx),
	}
}

// ForEvent returns a logger whose entries reference the given update event.
func (l *SyncLogger) ForEvent(eventID string) *SyncLogger {
	return &SyncLogger{
		service: l.service,
		device:  l.device,
		log:     l.log.Data(logger.Data{"update_event_id": eventID}),
		ctx:     l.ctx,
		eventID: &eventID,
	}
}

func (l *SyncLogger) Info(msg string, data logger.Data) {
	l.log.Info(msg, data)
	l.persist(models.SyncLogLevelInfo, msg, data)
}

func (l *SyncLogger) Warn(msg string, data logger.Data) {
	l.log.Warn(msg, data)
	l.persist(models.SyncLogLevelWarn, msg, data)
}

// Error logs msg with the error. The error text goes into the entry's data
// so it can be read back for diagnosis.
func (l *SyncLogger) Error(msg string, err error, data logger.Data) {
	l.log.Err(err).Error(msg, data)

	withErr := logger.Data{}
	for k, v := range data {
		withErr[k] = v
	}
	if err != nil {
		withErr["error"] = err.Error()
	}
	l.persist(models.SyncLogLevelError, msg, withErr)
}

func (l *SyncLogger) persist(level, msg string, data logger.Data) {
	var dataStr *string
	if len(data) > 0 {
		truncatedData := make(logger.Data, len(data))
		for k, v := range data {
			s, ok := v.(string)
			if ok && len(s) > maxDataValueLen {
				truncatedData[k] = truncateMiddle(s, maxDataValueLen)
			} else {
				truncatedData[k] = v
			}
		}
		jsonBytes, err := json.Marshal(truncatedData)
		if err == nil {
			s := string(jsonBytes)
			dataStr = &s
		}
	}

	entry := &models.SyncLog{
		Level:         level,
		Message:       msg,
		UpdateEventID: l.eventID,
		Data:          dataStr,
		SystemName:    l.device.SystemName,
		SystemVersion: l.device.SystemVersion,
		AppVersion:    l.device.AppVersion,
		DeviceModel:   l.device.DeviceModel,
	}

	if err := l.service.CreateSyncLog(l.ctx, entry); err != nil {
		l.log.Err(err).Warn("failed to persist sync log entry")
	}
}

func truncateMiddle(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	half := (maxLen - 5) / 2
	return s[:half] + " ... " + s[len(s)-half:]
}
