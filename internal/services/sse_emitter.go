package services

import (
	"context"

	"github.com/yungbote/courseprogress-backend/internal/realtime"
	"github.com/yungbote/courseprogress-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage) error
	Transport() string
}

// HubEmitter delivers to streams open on this instance only.
type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(_ context.Context, msg realtime.SSEMessage) error {
	e.Hub.Broadcast(msg)
	return nil
}

func (e *HubEmitter) Transport() string { return "hub" }

// RedisEmitter publishes to every instance; each forwarder rebroadcasts locally.
type RedisEmitter struct{ Bus bus.Bus }

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) error {
	return e.Bus.Publish(ctx, msg)
}

func (e *RedisEmitter) Transport() string { return "redis" }
