package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

func TestCompleteContentDispatchesAfterSuccess(t *testing.T) {
	user := uuid.New()
	agg := &spyAggregate{res: domainagg.CompleteContentResult{
		ProgressID:        uuid.New(),
		IsStepCompleted:   true,
		IsCourseCompleted: true,
		Events:            []types.Event{types.ContentCompleted{UserID: user}, types.CourseCompleted{UserID: user}},
	}}
	disp := &spyDispatcher{}
	svc := NewCompletionService(logger.Nop(), agg, &fakeProgress{}, disp)

	out, err := svc.CompleteContent(userCtx(user), CompleteContentRequest{CourseID: uuid.New(), ContentID: uuid.New()})
	if err != nil {
		t.Fatalf("CompleteContent: %v", err)
	}
	if !out.IsCourseCompleted || out.ProgressID != agg.res.ProgressID {
		t.Fatalf("response: got=%+v", out)
	}
	if len(agg.calls) != 1 || agg.calls[0].UserID != user {
		t.Fatalf("aggregate user: want=%s got=%+v", user, agg.calls)
	}
	if len(disp.events) != 2 {
		t.Fatalf("dispatched: want=2 got=%d", len(disp.events))
	}
}

func TestCompleteContentDoesNotDispatchOnFailure(t *testing.T) {
	agg := &spyAggregate{err: domainagg.NewError(domainagg.CodeBusinessRuleViolation, "op", "Step is locked", nil)}
	disp := &spyDispatcher{}
	svc := NewCompletionService(logger.Nop(), agg, &fakeProgress{}, disp)

	_, err := svc.CompleteContent(userCtx(uuid.New()), CompleteContentRequest{CourseID: uuid.New(), ContentID: uuid.New()})
	if !domainagg.IsCode(err, domainagg.CodeBusinessRuleViolation) {
		t.Fatalf("error code: want=%s got=%v", domainagg.CodeBusinessRuleViolation, err)
	}
	if len(disp.events) != 0 {
		t.Fatalf("dispatched on failure: got=%d", len(disp.events))
	}
}

func TestUpdateVideoProgressRequiresExistingRow(t *testing.T) {
	svc := NewCompletionService(logger.Nop(), &spyAggregate{}, &fakeProgress{}, nil)
	_, err := svc.UpdateVideoProgress(userCtx(uuid.New()), VideoProgressRequest{
		CourseID: uuid.New(), ContentID: uuid.New(), WatchedPercentage: 40,
	})
	if !domainagg.IsCode(err, domainagg.CodeBusinessRuleViolation) {
		t.Fatalf("error code: want=%s got=%v", domainagg.CodeBusinessRuleViolation, err)
	}
}

func TestUpdateVideoProgressValidates(t *testing.T) {
	svc := NewCompletionService(logger.Nop(), &spyAggregate{}, &fakeProgress{}, nil)
	cases := []struct {
		name string
		ctx  context.Context
		req  VideoProgressRequest
		code domainagg.ErrorCode
	}{
		{"no user", context.Background(), VideoProgressRequest{CourseID: uuid.New(), ContentID: uuid.New()}, domainagg.CodeUnauthorized},
		{"missing ids", userCtx(uuid.New()), VideoProgressRequest{}, domainagg.CodeValidation},
		{"percentage over 100", userCtx(uuid.New()), VideoProgressRequest{CourseID: uuid.New(), ContentID: uuid.New(), WatchedPercentage: 101}, domainagg.CodeValidation},
		{"negative seconds", userCtx(uuid.New()), VideoProgressRequest{CourseID: uuid.New(), ContentID: uuid.New(), TimeSpentSeconds: -1}, domainagg.CodeValidation},
	}
	for _, tc := range cases {
		_, err := svc.UpdateVideoProgress(tc.ctx, tc.req)
		if !domainagg.IsCode(err, tc.code) {
			t.Fatalf("%s: want=%s got=%v", tc.name, tc.code, err)
		}
	}
}

func TestUpdateVideoProgressUpdatesWatchedPercentage(t *testing.T) {
	user := uuid.New()
	prog := &fakeProgress{}
	row := prog.add(&types.Progress{UserID: user, CourseID: uuid.New(), ContentID: uuid.New()})
	agg := &spyAggregate{}
	svc := NewCompletionService(logger.Nop(), agg, prog, nil)

	out, err := svc.UpdateVideoProgress(userCtx(user), VideoProgressRequest{
		CourseID: row.CourseID, ContentID: row.ContentID, WatchedPercentage: 55,
	})
	if err != nil {
		t.Fatalf("UpdateVideoProgress: %v", err)
	}
	if out.ProgressID != row.ID || out.IsCompleted {
		t.Fatalf("response: got=%+v", out)
	}
	if got := prog.updates[row.ID]["watched_percentage"]; got != 55 {
		t.Fatalf("watched_percentage: want=55 got=%v", got)
	}
	if _, ok := prog.updates[row.ID]["last_accessed_at"]; !ok {
		t.Fatalf("last_accessed_at not updated")
	}
	if len(agg.calls) != 0 {
		t.Fatalf("aggregate should not run for a partial watch")
	}
}

func TestUpdateVideoProgressCompletionDelegates(t *testing.T) {
	user := uuid.New()
	prog := &fakeProgress{}
	row := prog.add(&types.Progress{UserID: user, CourseID: uuid.New(), ContentID: uuid.New()})
	agg := &spyAggregate{res: domainagg.CompleteContentResult{ProgressID: row.ID, IsStepCompleted: true}}
	disp := &spyDispatcher{}
	svc := NewCompletionService(logger.Nop(), agg, prog, disp)

	out, err := svc.UpdateVideoProgress(userCtx(user), VideoProgressRequest{
		CourseID: row.CourseID, ContentID: row.ContentID, WatchedPercentage: 100, TimeSpentSeconds: 150, IsCompleted: true,
	})
	if err != nil {
		t.Fatalf("UpdateVideoProgress: %v", err)
	}
	if !out.IsCompleted || !out.IsStepCompleted {
		t.Fatalf("response: got=%+v", out)
	}
	if len(agg.calls) != 1 {
		t.Fatalf("aggregate calls: want=1 got=%d", len(agg.calls))
	}
	in := agg.calls[0]
	if in.TimeSpentMinutes == nil || *in.TimeSpentMinutes != 2 {
		t.Fatalf("minutes: want=2 got=%v", in.TimeSpentMinutes)
	}
	if in.WatchedPercentage == nil || *in.WatchedPercentage != 100 {
		t.Fatalf("watched: want=100 got=%v", in.WatchedPercentage)
	}
	if len(prog.updates) != 0 {
		t.Fatalf("direct update should be skipped when completing")
	}
}

func TestUpdateVideoProgressShortWatchSendsNoMinutes(t *testing.T) {
	user := uuid.New()
	prog := &fakeProgress{}
	row := prog.add(&types.Progress{UserID: user, CourseID: uuid.New(), ContentID: uuid.New()})
	agg := &spyAggregate{}
	svc := NewCompletionService(logger.Nop(), agg, prog, nil)

	if _, err := svc.UpdateVideoProgress(userCtx(user), VideoProgressRequest{
		CourseID: row.CourseID, ContentID: row.ContentID, WatchedPercentage: 90, TimeSpentSeconds: 59, IsCompleted: true,
	}); err != nil {
		t.Fatalf("UpdateVideoProgress: %v", err)
	}
	if agg.calls[0].TimeSpentMinutes != nil {
		t.Fatalf("minutes: want=nil got=%d", *agg.calls[0].TimeSpentMinutes)
	}
}
