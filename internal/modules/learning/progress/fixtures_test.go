package progress

import (
	"github.com/google/uuid"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
)

type stepSpec struct {
	order    int
	required bool
	contents []bool // isRequired per content
}

func buildCourse(specs ...stepSpec) *types.Course {
	course := &types.Course{ID: uuid.New(), Title: "course"}
	rm := &types.Roadmap{ID: uuid.New(), CourseID: course.ID, Title: "roadmap"}
	for _, sp := range specs {
		st := &types.Step{ID: uuid.New(), RoadmapID: rm.ID, Order: sp.order, IsRequired: sp.required, Title: "step"}
		for i, req := range sp.contents {
			st.Contents = append(st.Contents, &types.Content{
				ID:         uuid.New(),
				StepID:     st.ID,
				Type:       types.ContentTypeText,
				Title:      "content",
				Order:      i + 1,
				IsRequired: req,
			})
		}
		rm.Steps = append(rm.Steps, st)
	}
	course.Roadmap = rm
	return course
}

func stepAt(c *types.Course, order int) *types.Step {
	for _, s := range c.Roadmap.Steps {
		if s.Order == order {
			return s
		}
	}
	return nil
}

func completedOf(contents ...*types.Content) Completed {
	done := Completed{}
	for _, c := range contents {
		done[c.ID] = struct{}{}
	}
	return done
}
