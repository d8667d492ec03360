package learning

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventContentCompleted EventType = "ContentCompleted"
	EventCourseCompleted  EventType = "CourseCompleted"
)

// Event is a side effect produced by a completion. Callers dispatch it after
// the write has committed.
type Event interface {
	Type() EventType
	Recipient() uuid.UUID
}

type ContentCompleted struct {
	ProgressID uuid.UUID `json:"progress_id"`
	UserID     uuid.UUID `json:"user_id"`
	CourseID   uuid.UUID `json:"course_id"`
	StepID     uuid.UUID `json:"step_id"`
	ContentID  uuid.UUID `json:"content_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ContentCompleted) Type() EventType        { return EventContentCompleted }
func (e ContentCompleted) Recipient() uuid.UUID { return e.UserID }

type CourseCompleted struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	UserID       uuid.UUID `json:"user_id"`
	CourseID     uuid.UUID `json:"course_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (CourseCompleted) Type() EventType        { return EventCourseCompleted }
func (e CourseCompleted) Recipient() uuid.UUID { return e.UserID }
