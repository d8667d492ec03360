package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
)

func userCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

type fakeCourses struct {
	byID map[uuid.UUID]*types.Course
	err  error

	mu      sync.Mutex
	batches []int
}

func newFakeCourses(courses ...*types.Course) *fakeCourses {
	f := &fakeCourses{byID: map[uuid.UUID]*types.Course{}}
	for _, c := range courses {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCourses) Create(_ dbctx.Context, c *types.Course) (*types.Course, error) {
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeCourses) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeCourses) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.batches = append(f.batches, len(ids))
	f.mu.Unlock()
	out := []*types.Course{}
	for _, id := range ids {
		if c := f.byID[id]; c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) GetByStepID(_ dbctx.Context, stepID uuid.UUID) (*types.Course, error) {
	for _, c := range f.byID {
		if c.Roadmap == nil {
			continue
		}
		for _, s := range c.Roadmap.Steps {
			if s.ID == stepID {
				return c, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeCourses) GetAll(_ dbctx.Context) ([]*types.Course, error) {
	out := []*types.Course{}
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourses) ListActive(dbc dbctx.Context) ([]*types.Course, error) {
	all, _ := f.GetAll(dbc)
	out := []*types.Course{}
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeEnrollments struct {
	rows      []*types.Enrollment
	createErr error
}

func (f *fakeEnrollments) Create(_ dbctx.Context, row *types.Enrollment) (*types.Enrollment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.EnrolledAt.IsZero() {
		row.EnrolledAt = time.Now().UTC()
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeEnrollments) GetByUserAndCourse(_ dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	for _, e := range f.rows {
		if e.UserID == userID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEnrollments) LockByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	return f.GetByUserAndCourse(dbc, userID, courseID)
}

func (f *fakeEnrollments) ListByUser(_ dbctx.Context, userID uuid.UUID, status types.EnrollmentStatus) ([]*types.Enrollment, error) {
	out := []*types.Enrollment{}
	for _, e := range f.rows {
		if e.UserID == userID && status.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) CountByCourse(_ dbctx.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	for _, e := range f.rows {
		if e.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

type fakeProgress struct {
	mu      sync.Mutex
	rows    []*types.Progress
	updates map[uuid.UUID]map[string]interface{}
}

func (f *fakeProgress) add(p *types.Progress) *types.Progress {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.rows = append(f.rows, p)
	return p
}

func (f *fakeProgress) Upsert(_ dbctx.Context, row *types.Progress) (*types.Progress, error) {
	return nil, errors.New("not used")
}

func (f *fakeProgress) GetByUserAndContent(_ dbctx.Context, userID, contentID, courseID uuid.UUID) (*types.Progress, error) {
	for _, p := range f.rows {
		if p.UserID == userID && p.ContentID == contentID && p.CourseID == courseID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProgress) ListByUserAndCourse(_ dbctx.Context, userID, courseID uuid.UUID) ([]*types.Progress, error) {
	out := []*types.Progress{}
	for _, p := range f.rows {
		if p.UserID == userID && p.CourseID == courseID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgress) ListByUserAndCourses(_ dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]*types.Progress, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range courseIDs {
		want[id] = true
	}
	out := []*types.Progress{}
	for _, p := range f.rows {
		if p.UserID == userID && want[p.CourseID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgress) ListByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.Progress, error) {
	out := []*types.Progress{}
	for _, p := range f.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgress) CountCompletedForStep(_ dbctx.Context, userID, stepID, courseID uuid.UUID) (int, error) {
	n := 0
	for _, p := range f.rows {
		if p.UserID == userID && p.StepID == stepID && p.CourseID == courseID && p.IsCompleted {
			n++
		}
	}
	return n, nil
}

func (f *fakeProgress) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[uuid.UUID]map[string]interface{}{}
	}
	f.updates[id] = updates
	return nil
}

type spyAggregate struct {
	calls []domainagg.CompleteContentInput
	res   domainagg.CompleteContentResult
	err   error
}

func (a *spyAggregate) Contract() domainagg.Contract { return domainagg.CompletionAggregateContract }

func (a *spyAggregate) CompleteContent(_ context.Context, in domainagg.CompleteContentInput) (domainagg.CompleteContentResult, error) {
	a.calls = append(a.calls, in)
	return a.res, a.err
}

type spyDispatcher struct {
	events []types.Event
}

func (d *spyDispatcher) Dispatch(_ context.Context, events []types.Event) {
	d.events = append(d.events, events...)
}

// course builds a roadmap whose steps are given as required flags per content.
// Step i gets order i+1 and is required.
func buildCourse(active bool, steps ...[]bool) *types.Course {
	c := &types.Course{ID: uuid.New(), Title: "Go basics", IsActive: active}
	c.Roadmap = &types.Roadmap{ID: uuid.New(), CourseID: c.ID}
	for i, contents := range steps {
		s := &types.Step{ID: uuid.New(), RoadmapID: c.Roadmap.ID, Title: "step", Order: i + 1, IsRequired: true}
		for j, req := range contents {
			s.Contents = append(s.Contents, &types.Content{
				ID: uuid.New(), StepID: s.ID, Title: "content", Type: types.ContentTypeText, Order: j + 1, IsRequired: req,
			})
		}
		c.Roadmap.Steps = append(c.Roadmap.Steps, s)
	}
	return c
}

func completedRow(userID uuid.UUID, c *types.Course, content *types.Content, minutes int) *types.Progress {
	now := time.Now().UTC()
	return &types.Progress{
		UserID:           userID,
		CourseID:         c.ID,
		StepID:           content.StepID,
		ContentID:        content.ID,
		IsCompleted:      true,
		CompletedAt:      &now,
		TimeSpentMinutes: &minutes,
	}
}
