package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/courseprogress-backend/internal/data/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/data/repos"
	types "github.com/yungbote/courseprogress-backend/internal/domain"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/modules/learning/progress"
	"github.com/yungbote/courseprogress-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

const (
	defaultEnrollmentListConcurrency = 4
	courseBatchSize                  = 25
)

type ContentProgressView struct {
	ContentID         uuid.UUID         `json:"content_id"`
	Title             string            `json:"title"`
	Type              types.ContentType `json:"type"`
	Order             int               `json:"order"`
	IsRequired        bool              `json:"is_required"`
	IsCompleted       bool              `json:"is_completed"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	TimeSpentMinutes  *int              `json:"time_spent_minutes,omitempty"`
	WatchedPercentage *int              `json:"watched_percentage,omitempty"`
}

type StepProgressView struct {
	StepID             uuid.UUID             `json:"step_id"`
	Title              string                `json:"title"`
	Order              int                   `json:"order"`
	IsRequired         bool                  `json:"is_required"`
	IsAccessible       bool                  `json:"is_accessible"`
	IsCompleted        bool                  `json:"is_completed"`
	CompletedCount     int                   `json:"completed_count"`
	TotalCount         int                   `json:"total_count"`
	ProgressPercentage int                   `json:"progress_percentage"`
	Contents           []ContentProgressView `json:"contents"`
}

type CourseProgressView struct {
	CourseID           uuid.UUID          `json:"course_id"`
	CourseTitle        string             `json:"course_title"`
	EnrollmentID       uuid.UUID          `json:"enrollment_id"`
	EnrolledAt         time.Time          `json:"enrolled_at"`
	StartedAt          *time.Time         `json:"started_at,omitempty"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
	IsCompleted        bool               `json:"is_completed"`
	ProgressPercentage int                `json:"progress_percentage"`
	NextStepID         *uuid.UUID         `json:"next_step_id,omitempty"`
	Steps              []StepProgressView `json:"steps"`
}

type EnrollmentView struct {
	EnrollmentID       uuid.UUID  `json:"enrollment_id"`
	CourseID           uuid.UUID  `json:"course_id"`
	CourseTitle        string     `json:"course_title"`
	EnrolledAt         time.Time  `json:"enrolled_at"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	IsActive           bool       `json:"is_active"`
	ProgressPercentage int        `json:"progress_percentage"`
}

type ProgressDashboard struct {
	TotalCourses          int              `json:"total_courses"`
	ActiveCourses         int              `json:"active_courses"`
	CompletedCourses      int              `json:"completed_courses"`
	TotalTimeSpentMinutes int              `json:"total_time_spent_minutes"`
	Enrollments           []EnrollmentView `json:"enrollments"`
}

type StepStatus struct {
	StepID         uuid.UUID `json:"step_id"`
	CourseID       uuid.UUID `json:"course_id"`
	CanAccess      bool      `json:"can_access"`
	IsCompleted    bool      `json:"is_completed"`
	CompletedCount int       `json:"completed_count"`
}

// ProgressService answers read-side progress questions for the caller in ctx.
type ProgressService interface {
	ListCourses(ctx context.Context) ([]*types.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error)
	GetCourseProgress(ctx context.Context, courseID uuid.UUID) (*CourseProgressView, error)
	GetUserEnrollments(ctx context.Context, status string) ([]EnrollmentView, error)
	GetProgressDashboard(ctx context.Context) (*ProgressDashboard, error)
	GetStepStatus(ctx context.Context, stepID uuid.UUID) (*StepStatus, error)
}

type progressService struct {
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
	progressRepo   repos.ProgressRepo
	engine         *progress.Engine
	concurrency    int
}

func NewProgressService(
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	progressRepo repos.ProgressRepo,
	engine *progress.Engine,
	concurrency int,
) ProgressService {
	if concurrency <= 0 {
		concurrency = defaultEnrollmentListConcurrency
	}
	return &progressService{
		log:            baseLog.With("service", "ProgressService"),
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		engine:         engine,
		concurrency:    concurrency,
	}
}

func requireUser(ctx context.Context, op string) (uuid.UUID, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, domainagg.NewError(domainagg.CodeUnauthorized, op, "user is required", nil)
	}
	return userID, nil
}

func (s *progressService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	const op = "Learning.Progress.ListCourses"
	out, err := s.courseRepo.ListActive(dbctx.Background(ctx))
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}

func (s *progressService) GetCourseProgress(ctx context.Context, courseID uuid.UUID) (*CourseProgressView, error) {
	const op = "Learning.Progress.GetCourseProgress"

	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Background(ctx)
	course, err := s.courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "Course not found", nil)
	}
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(dbc, userID, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if enrollment == nil {
		return nil, domainagg.NewError(domainagg.CodeBusinessRuleViolation, op, "User is not enrolled in this course", nil)
	}

	snap, err := s.engine.SnapshotFor(ctx, userID, course)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	ix, done := snap.Index, snap.Done

	rowByContent := make(map[uuid.UUID]*types.Progress, len(snap.Progress))
	for _, p := range snap.Progress {
		if p != nil {
			rowByContent[p.ContentID] = p
		}
	}

	view := &CourseProgressView{
		CourseID:           course.ID,
		CourseTitle:        course.Title,
		EnrollmentID:       enrollment.ID,
		EnrolledAt:         enrollment.EnrolledAt,
		StartedAt:          enrollment.StartedAt,
		CompletedAt:        enrollment.CompletedAt,
		IsCompleted:        ix.IsCourseCompleted(done),
		ProgressPercentage: ix.ProgressPercentage(done),
		Steps:              make([]StepProgressView, 0, len(ix.Steps())),
	}
	if next, ok := ix.NextUnlockedStepID(done); ok {
		view.NextStepID = &next
	}

	for _, step := range ix.Steps() {
		completed, total := ix.StepCounts(step.ID, done)
		sv := StepProgressView{
			StepID:             step.ID,
			Title:              step.Title,
			Order:              step.Order,
			IsRequired:         step.IsRequired,
			IsAccessible:       ix.CanAccessStep(step.ID, done),
			IsCompleted:        ix.IsStepCompleted(step.ID, done),
			CompletedCount:     completed,
			TotalCount:         total,
			ProgressPercentage: progress.Percentage(completed, total),
			Contents:           make([]ContentProgressView, 0, len(step.Contents)),
		}
		for _, c := range step.Contents {
			cv := ContentProgressView{
				ContentID:   c.ID,
				Title:       c.Title,
				Type:        c.Type,
				Order:       c.Order,
				IsRequired:  c.IsRequired,
				IsCompleted: done.Has(c.ID),
			}
			if row := rowByContent[c.ID]; row != nil {
				cv.CompletedAt = row.CompletedAt
				cv.TimeSpentMinutes = row.TimeSpentMinutes
				cv.WatchedPercentage = row.WatchedPercentage
			}
			sv.Contents = append(sv.Contents, cv)
		}
		view.Steps = append(view.Steps, sv)
	}
	return view, nil
}

func (s *progressService) GetUserEnrollments(ctx context.Context, status string) ([]EnrollmentView, error) {
	const op = "Learning.Progress.GetUserEnrollments"

	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	filter, ok := types.ParseEnrollmentStatus(status)
	if !ok {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "status must be one of all, active, completed", nil)
	}
	rows, err := s.enrollmentRepo.ListByUser(dbctx.Background(ctx), userID, filter)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	items, err := s.enrollmentViews(ctx, userID, rows)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return items, nil
}

func (s *progressService) GetProgressDashboard(ctx context.Context) (*ProgressDashboard, error) {
	const op = "Learning.Progress.GetProgressDashboard"

	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Background(ctx)
	rows, err := s.enrollmentRepo.ListByUser(dbc, userID, types.EnrollmentStatusAll)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}

	var (
		items    []EnrollmentView
		progRows []*types.Progress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.enrollmentViews(gctx, userID, rows)
		return err
	})
	g.Go(func() error {
		var err error
		progRows, err = s.progressRepo.ListByUser(dbctx.Background(gctx), userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggregates.MapError(op, err)
	}

	out := &ProgressDashboard{TotalCourses: len(rows), Enrollments: items}
	for _, e := range rows {
		if types.EnrollmentStatusActive.Matches(e) {
			out.ActiveCourses++
		}
		if types.EnrollmentStatusCompleted.Matches(e) {
			out.CompletedCourses++
		}
	}
	for _, p := range progRows {
		if p != nil && p.TimeSpentMinutes != nil {
			out.TotalTimeSpentMinutes += *p.TimeSpentMinutes
		}
	}
	return out, nil
}

func (s *progressService) GetStepStatus(ctx context.Context, stepID uuid.UUID) (*StepStatus, error) {
	const op = "Learning.Progress.GetStepStatus"

	userID, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Background(ctx)
	course, err := s.courseRepo.GetByStepID(dbc, stepID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "Step not found", nil)
	}

	canAccess, err := s.engine.CanAccessStep(ctx, userID, stepID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	isCompleted, err := s.engine.IsStepCompleted(ctx, userID, stepID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	count, err := s.progressRepo.CountCompletedForStep(dbc, userID, stepID, course.ID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return &StepStatus{
		StepID:         stepID,
		CourseID:       course.ID,
		CanAccess:      canAccess,
		IsCompleted:    isCompleted,
		CompletedCount: count,
	}, nil
}

// enrollmentViews loads the enrolled courses in batches with bounded
// concurrency and the learner's progress for all of them in one query.
// Enrollments whose course no longer resolves are left out.
func (s *progressService) enrollmentViews(ctx context.Context, userID uuid.UUID, rows []*types.Enrollment) ([]EnrollmentView, error) {
	if len(rows) == 0 {
		return []EnrollmentView{}, nil
	}
	courseIDs := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, e := range rows {
		if e == nil {
			continue
		}
		if _, ok := seen[e.CourseID]; ok {
			continue
		}
		seen[e.CourseID] = struct{}{}
		courseIDs = append(courseIDs, e.CourseID)
	}

	var (
		mu      sync.Mutex
		courses = make(map[uuid.UUID]*types.Course, len(courseIDs))
		prog    []*types.Progress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for lo := 0; lo < len(courseIDs); lo += courseBatchSize {
		batch := courseIDs[lo:min(lo+courseBatchSize, len(courseIDs))]
		g.Go(func() error {
			loaded, err := s.courseRepo.GetByIDs(dbctx.Background(gctx), batch)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, c := range loaded {
				if c != nil {
					courses[c.ID] = c
				}
			}
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		var err error
		prog, err = s.progressRepo.ListByUserAndCourses(dbctx.Background(gctx), userID, courseIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCourse := make(map[uuid.UUID][]*types.Progress, len(courseIDs))
	for _, p := range prog {
		if p != nil {
			byCourse[p.CourseID] = append(byCourse[p.CourseID], p)
		}
	}

	out := make([]EnrollmentView, 0, len(rows))
	for _, e := range rows {
		if e == nil {
			continue
		}
		c := courses[e.CourseID]
		if c == nil {
			s.log.Warn("enrolled course missing", "course_id", e.CourseID, "enrollment_id", e.ID)
			continue
		}
		out = append(out, EnrollmentView{
			EnrollmentID:       e.ID,
			CourseID:           e.CourseID,
			CourseTitle:        c.Title,
			EnrolledAt:         e.EnrolledAt,
			StartedAt:          e.StartedAt,
			CompletedAt:        e.CompletedAt,
			IsActive:           e.IsActive,
			ProgressPercentage: progress.NewIndex(c).ProgressPercentage(progress.NewCompleted(byCourse[e.CourseID])),
		})
	}
	return out, nil
}
