package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
)

// StepSeed describes one roadmap step; Contents lists isRequired per content.
type StepSeed struct {
	Order    int
	Required bool
	Contents []bool
}

// SeedCourse inserts an active course with a roadmap built from steps.
// Steps are inserted in reverse order so readers must sort by step_order.
func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, steps ...StepSeed) *types.Course {
	tb.Helper()
	now := time.Now().UTC()
	c := &types.Course{ID: uuid.New(), Title: title, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	if len(steps) == 0 {
		return c
	}
	rm := &types.Roadmap{ID: uuid.New(), CourseID: c.ID, Title: title + " roadmap"}
	if err := tx.WithContext(ctx).Omit("Steps").Create(rm).Error; err != nil {
		tb.Fatalf("seed roadmap: %v", err)
	}
	c.Roadmap = rm
	for i := len(steps) - 1; i >= 0; i-- {
		sp := steps[i]
		st := &types.Step{ID: uuid.New(), RoadmapID: rm.ID, Title: "step", Order: sp.Order, IsRequired: sp.Required}
		if err := tx.WithContext(ctx).Omit("Contents").Create(st).Error; err != nil {
			tb.Fatalf("seed step: %v", err)
		}
		for j, req := range sp.Contents {
			ct := &types.Content{
				ID:         uuid.New(),
				StepID:     st.ID,
				Type:       types.ContentTypeText,
				Title:      "content",
				Order:      j + 1,
				IsRequired: req,
				Metadata:   datatypes.JSON([]byte("{}")),
			}
			if err := tx.WithContext(ctx).Create(ct).Error; err != nil {
				tb.Fatalf("seed content: %v", err)
			}
			st.Contents = append(st.Contents, ct)
		}
		rm.Steps = append([]*types.Step{st}, rm.Steps...)
	}
	return c
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) *types.Enrollment {
	tb.Helper()
	now := time.Now().UTC()
	e := &types.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: now,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Omit("Course").Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

// StepAt returns the seeded step with the given order.
func StepAt(c *types.Course, order int) *types.Step {
	if c == nil || c.Roadmap == nil {
		return nil
	}
	for _, s := range c.Roadmap.Steps {
		if s.Order == order {
			return s
		}
	}
	return nil
}

func PtrInt(v int) *int { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

// PurgeCourse hard-deletes a committed course tree plus its enrollments and
// progress. Tests that need real commits register it with t.Cleanup.
func PurgeCourse(tb testing.TB, db *gorm.DB, c *types.Course) {
	tb.Helper()
	if c == nil {
		return
	}
	q := db.Unscoped()
	if err := q.Where("course_id = ?", c.ID).Delete(&types.Progress{}).Error; err != nil {
		tb.Errorf("purge progress: %v", err)
	}
	if err := q.Where("course_id = ?", c.ID).Delete(&types.Enrollment{}).Error; err != nil {
		tb.Errorf("purge enrollments: %v", err)
	}
	if c.Roadmap != nil {
		for _, st := range c.Roadmap.Steps {
			if err := q.Where("step_id = ?", st.ID).Delete(&types.Content{}).Error; err != nil {
				tb.Errorf("purge contents: %v", err)
			}
		}
		if err := q.Where("roadmap_id = ?", c.Roadmap.ID).Delete(&types.Step{}).Error; err != nil {
			tb.Errorf("purge steps: %v", err)
		}
		if err := q.Where("id = ?", c.Roadmap.ID).Delete(&types.Roadmap{}).Error; err != nil {
			tb.Errorf("purge roadmap: %v", err)
		}
	}
	if err := q.Where("id = ?", c.ID).Delete(&types.Course{}).Error; err != nil {
		tb.Errorf("purge course: %v", err)
	}
}
