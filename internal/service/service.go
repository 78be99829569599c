package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/events"
)

// Clock returns the current time; services use it so tests can pin timestamps.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, clock Clock, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = clock()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
