// Package notifier delivers the transient success and failure messages
// produced by mutations.
package notifier

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/logger"
	"github.com/julianstephens/wird/internal/models"
)

// Sink receives notifications. Implementations must not block for long.
type Sink interface {
	Notify(n models.Notification)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(models.Notification)

func (f SinkFunc) Notify(n models.Notification) { f(n) }

// New builds a notification with a fresh id.
func New(kind constants.NotificationKind, message string) models.Notification {
	return models.Notification{
		ID:        ulid.Make().String(),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}

func Success(message string) models.Notification {
	return New(constants.NotifySuccess, message)
}

func Failure(message string) models.Notification {
	return New(constants.NotifyError, message)
}

// Multi fans a notification out to every sink in order
type Multi []Sink

func (m Multi) Notify(n models.Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// LogSink writes notifications to the application log
type LogSink struct{}

func (LogSink) Notify(n models.Notification) {
	if n.IsError() {
		logger.Error("notification", "id", n.ID, "message", n.Message)
		return
	}
	logger.Debug("notification", "id", n.ID, "message", n.Message)
}
