package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseprogress-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseprogress-backend/internal/domain"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
)

func TestProgressRepoUpsertIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewProgressRepo(db, testutil.Logger(t))

	user := uuid.New()
	c := testutil.SeedCourse(t, ctx, tx, "progress", testutil.StepSeed{Order: 1, Required: true, Contents: []bool{true, false}})
	e := testutil.SeedEnrollment(t, ctx, tx, user, c.ID)
	step := testutil.StepAt(c, 1)
	content := step.Contents[0]

	first, err := repo.Upsert(dbc, &types.Progress{
		UserID: user, EnrollmentID: e.ID, CourseID: c.ID, StepID: step.ID, ContentID: content.ID,
		TimeSpentMinutes: testutil.PtrInt(4), WatchedPercentage: testutil.PtrInt(60),
	})
	if err != nil || first == nil {
		t.Fatalf("Upsert first: err=%v got=%v", err, first)
	}

	later := time.Now().UTC().Add(time.Minute)
	second, err := repo.Upsert(dbc, &types.Progress{
		UserID: user, EnrollmentID: e.ID, CourseID: c.ID, StepID: step.ID, ContentID: content.ID,
		TimeSpentMinutes: testutil.PtrInt(9), CompletedAt: testutil.PtrTime(later),
	})
	if err != nil || second == nil {
		t.Fatalf("Upsert second: err=%v got=%v", err, second)
	}
	if second.ID != first.ID {
		t.Fatalf("row id: want=%s got=%s", first.ID, second.ID)
	}
	if second.TimeSpentMinutes == nil || *second.TimeSpentMinutes != 9 {
		t.Fatalf("time spent: want=9 got=%v", second.TimeSpentMinutes)
	}
	if second.WatchedPercentage == nil || *second.WatchedPercentage != 60 {
		t.Fatalf("watched percentage: want=60 got=%v", second.WatchedPercentage)
	}

	rows, err := repo.ListByUserAndCourse(dbc, user, c.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUserAndCourse: err=%v len=%d", err, len(rows))
	}
	if n, err := repo.CountCompletedForStep(dbc, user, step.ID, c.ID); err != nil || n != 1 {
		t.Fatalf("CountCompletedForStep: err=%v n=%d", err, n)
	}
	if rows, err := repo.ListByUserAndCourses(dbc, user, []uuid.UUID{c.ID, uuid.New()}); err != nil || len(rows) != 1 {
		t.Fatalf("ListByUserAndCourses: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListByUser(dbc, user); err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}

	if err := repo.UpdateFields(dbc, first.ID, map[string]interface{}{"watched_percentage": 95}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByUserAndContent(dbc, user, content.ID, c.ID)
	if err != nil || got == nil || got.WatchedPercentage == nil || *got.WatchedPercentage != 95 {
		t.Fatalf("GetByUserAndContent after update: err=%v got=%+v", err, got)
	}
	if none, err := repo.GetByUserAndContent(dbc, user, step.Contents[1].ID, c.ID); err != nil || none != nil {
		t.Fatalf("GetByUserAndContent missing: err=%v got=%v", err, none)
	}
}

func TestProgressRepoUpsertNilMinutesClearsStoredValue(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewProgressRepo(db, testutil.Logger(t))

	user := uuid.New()
	c := testutil.SeedCourse(t, ctx, tx, "minutes", testutil.StepSeed{Order: 1, Required: true, Contents: []bool{true}})
	e := testutil.SeedEnrollment(t, ctx, tx, user, c.ID)
	step := testutil.StepAt(c, 1)
	row := func(minutes *int) *types.Progress {
		return &types.Progress{
			UserID: user, EnrollmentID: e.ID, CourseID: c.ID, StepID: step.ID, ContentID: step.Contents[0].ID,
			TimeSpentMinutes: minutes,
		}
	}

	if _, err := repo.Upsert(dbc, row(testutil.PtrInt(7))); err != nil {
		t.Fatalf("Upsert with minutes: %v", err)
	}
	got, err := repo.Upsert(dbc, row(nil))
	if err != nil {
		t.Fatalf("Upsert without minutes: %v", err)
	}
	if got.TimeSpentMinutes != nil {
		t.Fatalf("time spent: want=nil got=%d", *got.TimeSpentMinutes)
	}
}
