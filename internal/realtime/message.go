package realtime

import (
	"github.com/google/uuid"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
)

type SSEEvent string

const (
	SSEEventContentCompleted SSEEvent = "ContentCompleted"
	SSEEventCourseCompleted  SSEEvent = "CourseCompleted"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the per-learner channel every stream of that user subscribes to.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// MessageFromEvent addresses a learner event to its recipient's channel.
func MessageFromEvent(evt types.Event) (SSEMessage, bool) {
	if evt == nil || evt.Recipient() == uuid.Nil {
		return SSEMessage{}, false
	}
	return SSEMessage{
		Channel: UserChannel(evt.Recipient()),
		Event:   SSEEvent(evt.Type()),
		Data:    evt,
	}, true
}
