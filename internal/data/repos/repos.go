package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/courseprogress-backend/internal/data/repos/learning"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

type CourseRepo = learning.CourseRepo
type EnrollmentRepo = learning.EnrollmentRepo
type ProgressRepo = learning.ProgressRepo

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return learning.NewProgressRepo(db, baseLog)
}
