package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/courseprogress-backend/internal/data/repos"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

type Repos struct {
	Course     repos.CourseRepo
	Enrollment repos.EnrollmentRepo
	Progress   repos.ProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:     repos.NewCourseRepo(db, log),
		Enrollment: repos.NewEnrollmentRepo(db, log),
		Progress:   repos.NewProgressRepo(db, log),
	}
}
