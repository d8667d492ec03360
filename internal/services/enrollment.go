package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/courseprogress-backend/internal/data/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/data/repos"
	types "github.com/yungbote/courseprogress-backend/internal/domain"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

const msgAlreadyEnrolled = "User is already enrolled in this course"

type EnrollmentService interface {
	EnrollInCourse(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error)
}

type enrollmentService struct {
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewEnrollmentService(baseLog *logger.Logger, courseRepo repos.CourseRepo, enrollmentRepo repos.EnrollmentRepo) EnrollmentService {
	return &enrollmentService{
		log:            baseLog.With("service", "EnrollmentService"),
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *enrollmentService) EnrollInCourse(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error) {
	const op = "Learning.Enrollment.EnrollInCourse"

	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if courseID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "course id is required", nil)
	}
	dbc := dbctx.Background(ctx)
	course, err := s.courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "Course not found", nil)
	}
	if !course.IsActive {
		return nil, domainagg.NewError(domainagg.CodeBusinessRuleViolation, op, "Course is not active", nil)
	}

	existing, err := s.enrollmentRepo.GetByUserAndCourse(dbc, userID, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if existing != nil {
		return nil, domainagg.NewError(domainagg.CodeBusinessRuleViolation, op, msgAlreadyEnrolled, nil)
	}

	created, err := s.enrollmentRepo.Create(dbc, &types.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		IsActive: true,
	})
	if err != nil {
		mapped := aggregates.MapError(op, err)
		// A concurrent enroll can pass the pre-check and lose on the unique index.
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			return nil, domainagg.NewError(domainagg.CodeBusinessRuleViolation, op, msgAlreadyEnrolled, err)
		}
		return nil, mapped
	}
	s.log.Info("user enrolled", "user_id", userID, "course_id", courseID, "enrollment_id", created.ID)
	return created, nil
}
