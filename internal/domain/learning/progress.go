package learning

import (
	"time"

	"github.com/google/uuid"
)

// Progress is one user's completion record for one content item.
// (user_id, content_id, course_id) is unique and is the upsert key.
type Progress struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content_course,priority:1;index:idx_progress_user_course,priority:1" json:"user_id"`
	EnrollmentID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	CourseID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content_course,priority:3;index:idx_progress_user_course,priority:2" json:"course_id"`
	StepID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"step_id"`
	ContentID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content_course,priority:2" json:"content_id"`
	IsCompleted       bool       `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedAt       *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	TimeSpentMinutes  *int       `gorm:"column:time_spent_minutes" json:"time_spent_minutes,omitempty"`
	WatchedPercentage *int       `gorm:"column:watched_percentage" json:"watched_percentage,omitempty"`
	LastAccessedAt    *time.Time `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Progress) TableName() string { return "content_progress" }
