package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
)

func TestGetCourseOrdersRoadmap(t *testing.T) {
	c := buildCourse(true, []bool{true, false}, []bool{true})
	c.Roadmap.Title = "Path"
	c.Roadmap.EstimatedDurationMinutes = 90
	// stored out of order
	steps := c.Roadmap.Steps
	steps[0], steps[1] = steps[1], steps[0]
	first := steps[1]
	first.Contents[0], first.Contents[1] = first.Contents[1], first.Contents[0]

	f := newProgressFixture(c)
	detail, err := f.svc.GetCourse(userCtx(uuid.New()), c.ID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if detail.Roadmap == nil {
		t.Fatalf("roadmap: want non-nil")
	}
	if detail.StepCount != 2 || len(detail.Roadmap.Steps) != 2 {
		t.Fatalf("steps: want=2 got=%d/%d", detail.StepCount, len(detail.Roadmap.Steps))
	}
	for i, st := range detail.Roadmap.Steps {
		if st.Order != i+1 {
			t.Fatalf("step %d order: want=%d got=%d", i, i+1, st.Order)
		}
		for j, cv := range st.Contents {
			if cv.Order != j+1 {
				t.Fatalf("step %d content %d order: want=%d got=%d", i, j, j+1, cv.Order)
			}
		}
	}
	if detail.Roadmap.Steps[0].ID != first.ID {
		t.Fatalf("first step: want=%s got=%s", first.ID, detail.Roadmap.Steps[0].ID)
	}
	if detail.EstimatedDurationMinutes == nil || *detail.EstimatedDurationMinutes != 90 {
		t.Fatalf("duration: want=90 got=%v", detail.EstimatedDurationMinutes)
	}
	if detail.UserEnrollment != nil || detail.ProgressPercentage != 0 {
		t.Fatalf("not enrolled: got enrollment=%v pct=%d", detail.UserEnrollment, detail.ProgressPercentage)
	}
}

func TestGetCourseDerivesVideoEmbeds(t *testing.T) {
	c := buildCourse(true, []bool{true, true, true})
	contents := c.Roadmap.Steps[0].Contents
	contents[0].Type = types.ContentTypeVideoLink
	contents[0].LinkURL = "https://www.youtube.com/watch?v=abc123"
	contents[0].Metadata = datatypes.JSON(`{"duration_seconds":300}`)
	contents[1].Type = types.ContentTypeVideoLink
	contents[1].LinkURL = "https://vimeo.com/98765"
	contents[2].Type = types.ContentTypeExternalLink
	contents[2].LinkURL = "https://go.dev/doc"
	contents[2].EmbedURL = "stored"

	f := newProgressFixture(c)
	detail, err := f.svc.GetCourse(userCtx(uuid.New()), c.ID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	got := detail.Roadmap.Steps[0].Contents
	if got[0].EmbedURL != "https://www.youtube.com/embed/abc123" || got[0].Platform != "youtube" {
		t.Fatalf("youtube: got=%s/%s", got[0].EmbedURL, got[0].Platform)
	}
	if string(got[0].Metadata) != `{"duration_seconds":300}` {
		t.Fatalf("metadata: got=%s", got[0].Metadata)
	}
	if got[1].EmbedURL != "https://player.vimeo.com/video/98765" || got[1].Platform != "vimeo" {
		t.Fatalf("vimeo: got=%s/%s", got[1].EmbedURL, got[1].Platform)
	}
	if got[2].EmbedURL != "stored" || got[2].Platform != "" {
		t.Fatalf("external link: got=%s/%s", got[2].EmbedURL, got[2].Platform)
	}
}

func TestGetCourseWithoutRoadmap(t *testing.T) {
	c := &types.Course{ID: uuid.New(), Title: "empty", IsActive: true}
	f := newProgressFixture(c)

	detail, err := f.svc.GetCourse(userCtx(uuid.New()), c.ID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if detail.Roadmap != nil || detail.EstimatedDurationMinutes != nil {
		t.Fatalf("roadmap: want=nil got=%+v", detail.Roadmap)
	}
	if detail.StepCount != 0 {
		t.Fatalf("step count: want=0 got=%d", detail.StepCount)
	}
}

func TestGetCourseEnrollmentSummary(t *testing.T) {
	c := buildCourse(true, []bool{true, true})
	f := newProgressFixture(c)
	user := uuid.New()
	f.enroll(user, c)
	f.enroll(uuid.New(), c)
	f.progress.add(completedRow(user, c, c.Roadmap.Steps[0].Contents[0], 3))

	detail, err := f.svc.GetCourse(userCtx(user), c.ID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if detail.EnrollmentCount != 2 {
		t.Fatalf("enrollment count: want=2 got=%d", detail.EnrollmentCount)
	}
	if detail.UserEnrollment == nil || !detail.UserEnrollment.IsActive {
		t.Fatalf("user enrollment: got=%+v", detail.UserEnrollment)
	}
	if detail.ProgressPercentage != 50 {
		t.Fatalf("percentage: want=50 got=%d", detail.ProgressPercentage)
	}
}

func TestGetCourseErrors(t *testing.T) {
	c := buildCourse(true, []bool{true})
	f := newProgressFixture(c)

	if _, err := f.svc.GetCourse(userCtx(uuid.New()), uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown course: want=not_found got=%v", err)
	}
	if _, err := f.svc.GetCourse(context.Background(), c.ID); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("no user: want=unauthorized got=%v", err)
	}
}
