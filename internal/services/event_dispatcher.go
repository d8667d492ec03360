package services

import (
	"context"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
	"github.com/yungbote/courseprogress-backend/internal/observability"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
	"github.com/yungbote/courseprogress-backend/internal/realtime"
)

// EventDispatcher delivers committed learner events. Delivery is best effort:
// failures are logged and counted, never returned.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []types.Event)
}

type eventDispatcher struct {
	log     *logger.Logger
	emit    SSEEmitter
	metrics *observability.Metrics
}

func NewEventDispatcher(baseLog *logger.Logger, emit SSEEmitter, metrics *observability.Metrics) EventDispatcher {
	return &eventDispatcher{
		log:     baseLog.With("service", "EventDispatcher"),
		emit:    emit,
		metrics: metrics,
	}
}

func (d *eventDispatcher) Dispatch(ctx context.Context, events []types.Event) {
	if d == nil || d.emit == nil {
		return
	}
	transport := d.emit.Transport()
	for _, evt := range events {
		msg, ok := realtime.MessageFromEvent(evt)
		if !ok {
			continue
		}
		if err := d.emit.Emit(ctx, msg); err != nil {
			d.log.Warn("event dispatch failed", "event", evt.Type(), "transport", transport, "user_id", evt.Recipient(), "error", err)
			d.metrics.IncEventDispatched(string(evt.Type()), transport, "error")
			continue
		}
		d.log.Debug("event dispatched", "event", evt.Type(), "transport", transport, "user_id", evt.Recipient())
		d.metrics.IncEventDispatched(string(evt.Type()), transport, "ok")
	}
}
