package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/modules/learning/progress"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
)

type CompletionCourseLoader interface {
	GetByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error)
}

// CompletionEnrollmentLocker must take a row lock that is held until the
// surrounding transaction ends.
type CompletionEnrollmentLocker interface {
	LockByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error)
}

type CompletionProgressStore interface {
	ListByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) ([]*types.Progress, error)
	Upsert(dbc dbctx.Context, row *types.Progress) (*types.Progress, error)
}

// CompletionGuard is the set-once write used for enrollment timestamps.
type CompletionGuard interface {
	UpdateWhereNull(dbc dbctx.Context, table string, id uuid.UUID, column string, updates map[string]any) (bool, error)
}

type CompletionAggregateDeps struct {
	Base BaseDeps

	Courses     CompletionCourseLoader
	Enrollments CompletionEnrollmentLocker
	Progress    CompletionProgressStore

	// Guard defaults to Base.CASGuard.
	Guard CompletionGuard
	Now   func() time.Time
}

type completionAggregate struct {
	deps CompletionAggregateDeps
}

func NewCompletionAggregate(deps CompletionAggregateDeps) domainagg.CompletionAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Guard == nil {
		deps.Guard = deps.Base.CASGuard
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &completionAggregate{deps: deps}
}

func (a *completionAggregate) Contract() domainagg.Contract {
	return domainagg.CompletionAggregateContract
}

func (a *completionAggregate) CompleteContent(ctx context.Context, in domainagg.CompleteContentInput) (domainagg.CompleteContentResult, error) {
	const op = "Learning.Completion.CompleteContent"

	if in.UserID == uuid.Nil {
		return domainagg.CompleteContentResult{}, domainagg.NewError(domainagg.CodeUnauthorized, op, "user is required", nil)
	}
	if err := validateCompleteContentInput(in); err != nil {
		return domainagg.CompleteContentResult{}, MapError(op, err)
	}
	if a.deps.Courses == nil || a.deps.Enrollments == nil || a.deps.Progress == nil {
		return domainagg.CompleteContentResult{}, domainagg.NewError(domainagg.CodeInternal, op, "completion aggregate is missing dependencies", nil)
	}

	var out domainagg.CompleteContentResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		res, err := a.complete(dbc, in)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return domainagg.CompleteContentResult{}, err
	}
	return out, nil
}

func (a *completionAggregate) complete(dbc dbctx.Context, in domainagg.CompleteContentInput) (domainagg.CompleteContentResult, error) {
	const op = "Learning.Completion.CompleteContent"
	now := a.deps.Now().UTC()

	course, err := a.deps.Courses.GetByID(dbc, in.CourseID)
	if err != nil {
		return domainagg.CompleteContentResult{}, err
	}
	if course == nil {
		return domainagg.CompleteContentResult{}, domainagg.NewError(domainagg.CodeNotFound, op, "Course not found", nil)
	}
	ix := progress.NewIndex(course)
	_, step, ok := ix.Content(in.ContentID)
	if !ok {
		return domainagg.CompleteContentResult{}, domainagg.NewError(domainagg.CodeNotFound, op, "Content not found", nil)
	}

	enrollment, err := a.deps.Enrollments.LockByUserAndCourse(dbc, in.UserID, in.CourseID)
	if err != nil {
		return domainagg.CompleteContentResult{}, err
	}
	if enrollment == nil {
		return domainagg.CompleteContentResult{}, BusinessRuleError("User is not enrolled in this course")
	}

	if enrollment.StartedAt == nil {
		if _, err := a.deps.Guard.UpdateWhereNull(dbc, types.Enrollment{}.TableName(), enrollment.ID, "started_at", map[string]any{
			"started_at": now,
			"updated_at": now,
		}); err != nil {
			return domainagg.CompleteContentResult{}, err
		}
	}

	rows, err := a.deps.Progress.ListByUserAndCourse(dbc, in.UserID, in.CourseID)
	if err != nil {
		return domainagg.CompleteContentResult{}, err
	}
	done := progress.NewCompleted(rows)
	if !ix.CanAccessStep(step.ID, done) {
		return domainagg.CompleteContentResult{}, BusinessRuleError("Step is locked. Complete previous required steps first.")
	}

	saved, err := a.deps.Progress.Upsert(dbc, &types.Progress{
		UserID:            in.UserID,
		EnrollmentID:      enrollment.ID,
		CourseID:          in.CourseID,
		StepID:            step.ID,
		ContentID:         in.ContentID,
		IsCompleted:       true,
		CompletedAt:       &now,
		TimeSpentMinutes:  in.TimeSpentMinutes,
		WatchedPercentage: in.WatchedPercentage,
		LastAccessedAt:    &now,
	})
	if err != nil {
		return domainagg.CompleteContentResult{}, err
	}
	if saved == nil || saved.ID == uuid.Nil {
		return domainagg.CompleteContentResult{}, domainagg.NewError(domainagg.CodeInternal, op, "progress upsert returned no row", nil)
	}

	done = done.With(in.ContentID)
	stepDone := ix.IsStepCompleted(step.ID, done)
	courseDone := stepDone && ix.IsCourseCompleted(done)

	events := []types.Event{types.ContentCompleted{
		ProgressID: saved.ID,
		UserID:     in.UserID,
		CourseID:   in.CourseID,
		StepID:     step.ID,
		ContentID:  in.ContentID,
		OccurredAt: now,
	}}

	if courseDone {
		newly, err := a.deps.Guard.UpdateWhereNull(dbc, types.Enrollment{}.TableName(), enrollment.ID, "completed_at", map[string]any{
			"completed_at": now,
			"updated_at":   now,
		})
		if err != nil {
			return domainagg.CompleteContentResult{}, err
		}
		if newly {
			events = append(events, types.CourseCompleted{
				EnrollmentID: enrollment.ID,
				UserID:       in.UserID,
				CourseID:     in.CourseID,
				OccurredAt:   now,
			})
		}
	}

	return domainagg.CompleteContentResult{
		ProgressID:        saved.ID,
		StepID:            step.ID,
		IsStepCompleted:   stepDone,
		IsCourseCompleted: courseDone,
		Events:            events,
	}, nil
}

func validateCompleteContentInput(in domainagg.CompleteContentInput) error {
	if in.CourseID == uuid.Nil {
		return ValidationError("courseId is required")
	}
	if in.ContentID == uuid.Nil {
		return ValidationError("contentId is required")
	}
	if in.WatchedPercentage != nil && (*in.WatchedPercentage < 0 || *in.WatchedPercentage > 100) {
		return ValidationError("watchedPercentage must be between 0 and 100")
	}
	if in.TimeSpentMinutes != nil && *in.TimeSpentMinutes <= 0 {
		return ValidationError("timeSpentMinutes must be positive")
	}
	return nil
}
