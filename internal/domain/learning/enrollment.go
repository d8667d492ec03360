package learning

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment moves Enrolled -> Started -> Completed. StartedAt and CompletedAt
// are each written once; IsActive is managed outside the completion flow.
type Enrollment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course,priority:1" json:"user_id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course,priority:2;index" json:"course_id"`
	Course      *Course    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	EnrolledAt  time.Time  `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at;index" json:"completed_at,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) IsStarted() bool   { return e != nil && e.StartedAt != nil }
func (e *Enrollment) IsCompleted() bool { return e != nil && e.CompletedAt != nil }

type EnrollmentStatus string

const (
	EnrollmentStatusAll       EnrollmentStatus = "all"
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// ParseEnrollmentStatus maps a query value onto a status filter. Empty means all.
func ParseEnrollmentStatus(raw string) (EnrollmentStatus, bool) {
	switch EnrollmentStatus(raw) {
	case "", EnrollmentStatusAll:
		return EnrollmentStatusAll, true
	case EnrollmentStatusActive:
		return EnrollmentStatusActive, true
	case EnrollmentStatusCompleted:
		return EnrollmentStatusCompleted, true
	default:
		return "", false
	}
}

// Matches reports whether e passes the filter. Active means flagged active and
// not yet completed.
func (s EnrollmentStatus) Matches(e *Enrollment) bool {
	if e == nil {
		return false
	}
	switch s {
	case EnrollmentStatusActive:
		return e.IsActive && e.CompletedAt == nil
	case EnrollmentStatusCompleted:
		return e.CompletedAt != nil
	default:
		return true
	}
}
