package progress

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

// CourseReader loads a course with its full roadmap tree.
type CourseReader interface {
	GetByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error)
	GetAll(dbc dbctx.Context) ([]*types.Course, error)
}

// StepLocator is an optional fast path for CourseReader implementations that can
// resolve a step's course without scanning the catalog.
type StepLocator interface {
	GetByStepID(dbc dbctx.Context, stepID uuid.UUID) (*types.Course, error)
}

// ProgressReader batch-loads a learner's progress rows for one course.
type ProgressReader interface {
	ListByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) ([]*types.Progress, error)
}

// Engine runs the pure Index evaluators against store data. Each call loads
// the course and the learner's progress once and evaluates in memory.
type Engine struct {
	log      *logger.Logger
	courses  CourseReader
	progress ProgressReader
}

func NewEngine(log *logger.Logger, courses CourseReader, progress ProgressReader) *Engine {
	return &Engine{
		log:      log.With("component", "ProgressEngine"),
		courses:  courses,
		progress: progress,
	}
}

// Snapshot is a course index paired with one learner's completed set.
type Snapshot struct {
	Index    *Index
	Done     Completed
	Progress []*types.Progress
}

// Load builds a Snapshot for (userID, courseID). It returns nil when the course does not exist.
func (e *Engine) Load(ctx context.Context, userID, courseID uuid.UUID) (*Snapshot, error) {
	dbc := dbctx.Background(ctx)
	course, err := e.courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, nil
	}
	return e.snapshot(dbc, userID, course)
}

// SnapshotFor evaluates an already loaded course, skipping the course read.
func (e *Engine) SnapshotFor(ctx context.Context, userID uuid.UUID, course *types.Course) (*Snapshot, error) {
	if course == nil {
		return nil, nil
	}
	return e.snapshot(dbctx.Background(ctx), userID, course)
}

func (e *Engine) snapshot(dbc dbctx.Context, userID uuid.UUID, course *types.Course) (*Snapshot, error) {
	rows, err := e.progress.ListByUserAndCourse(dbc, userID, course.ID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Index: NewIndex(course), Done: NewCompleted(rows), Progress: rows}, nil
}

func (e *Engine) courseForStep(dbc dbctx.Context, stepID uuid.UUID) (*types.Course, error) {
	if loc, ok := e.courses.(StepLocator); ok {
		return loc.GetByStepID(dbc, stepID)
	}
	e.log.Debug("step lookup scanning catalog", "step_id", stepID)
	all, err := e.courses.GetAll(dbc)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c == nil || c.Roadmap == nil {
			continue
		}
		for _, s := range c.Roadmap.Steps {
			if s != nil && s.ID == stepID {
				return c, nil
			}
		}
	}
	return nil, nil
}

func (e *Engine) stepSnapshot(ctx context.Context, userID, stepID uuid.UUID) (*Snapshot, error) {
	dbc := dbctx.Background(ctx)
	course, err := e.courseForStep(dbc, stepID)
	if err != nil || course == nil {
		return nil, err
	}
	return e.snapshot(dbc, userID, course)
}

func (e *Engine) CanAccessStep(ctx context.Context, userID, stepID uuid.UUID) (bool, error) {
	snap, err := e.stepSnapshot(ctx, userID, stepID)
	if err != nil || snap == nil {
		return false, err
	}
	return snap.Index.CanAccessStep(stepID, snap.Done), nil
}

func (e *Engine) IsStepCompleted(ctx context.Context, userID, stepID uuid.UUID) (bool, error) {
	snap, err := e.stepSnapshot(ctx, userID, stepID)
	if err != nil || snap == nil {
		return false, err
	}
	return snap.Index.IsStepCompleted(stepID, snap.Done), nil
}

func (e *Engine) IsCourseCompleted(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	snap, err := e.Load(ctx, userID, courseID)
	if err != nil || snap == nil {
		return false, err
	}
	return snap.Index.IsCourseCompleted(snap.Done), nil
}

func (e *Engine) CalculateProgressPercentage(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	snap, err := e.Load(ctx, userID, courseID)
	if err != nil || snap == nil {
		return 0, err
	}
	return snap.Index.ProgressPercentage(snap.Done), nil
}

// GetNextUnlockedStepID returns uuid.Nil, false when every step is done or none is reachable.
func (e *Engine) GetNextUnlockedStepID(ctx context.Context, userID, courseID uuid.UUID) (uuid.UUID, bool, error) {
	snap, err := e.Load(ctx, userID, courseID)
	if err != nil || snap == nil {
		return uuid.Nil, false, err
	}
	id, ok := snap.Index.NextUnlockedStepID(snap.Done)
	return id, ok, nil
}
