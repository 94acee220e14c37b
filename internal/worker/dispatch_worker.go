package worker

import (
	"go.uber.org/zap"

	"github.com/grievance-hub/complaint-service/internal/events"
	"github.com/grievance-hub/complaint-service/internal/notify"
)

// StartDispatchQueue wires the notification dispatcher behind the
// per-complaint queue. Callers own the returned queue's shutdown.
func StartDispatchQueue(dispatcher *notify.Dispatcher, logger *zap.Logger) *events.DispatchQueue {
	return events.NewDispatchQueue(dispatcher.Handle, logger)
}
