// Package progress answers access, completion and percentage questions about a
// learner's position in a course roadmap.
//
// A course tree is materialized once per request into an Index (ordered step
// arena plus id lookups). Evaluation is pure: every method takes the learner's
// Completed set and reads nothing else.
package progress

import (
	"math"
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/courseprogress-backend/internal/domain"
)

// Index is an immutable, ordered view over one course's roadmap.
type Index struct {
	courseID   uuid.UUID
	hasRoadmap bool

	steps       []*types.Step // ascending by Order
	stepPos     map[uuid.UUID]int
	contentStep map[uuid.UUID]int
	contents    map[uuid.UUID]*types.Content
	total       int
}

// NewIndex materializes course. Steps and contents are sorted by their order
// fields so evaluation never depends on load order. A nil course yields an
// empty index that resolves nothing.
func NewIndex(course *types.Course) *Index {
	ix := &Index{
		stepPos:     map[uuid.UUID]int{},
		contentStep: map[uuid.UUID]int{},
		contents:    map[uuid.UUID]*types.Content{},
	}
	if course == nil {
		return ix
	}
	ix.courseID = course.ID
	if course.Roadmap == nil {
		return ix
	}
	ix.hasRoadmap = true

	steps := make([]*types.Step, 0, len(course.Roadmap.Steps))
	for _, s := range course.Roadmap.Steps {
		if s != nil {
			steps = append(steps, s)
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })

	for i, s := range steps {
		ordered := make([]*types.Content, 0, len(s.Contents))
		for _, c := range s.Contents {
			if c != nil {
				ordered = append(ordered, c)
			}
		}
		sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Order < ordered[b].Order })
		copied := *s
		copied.Contents = ordered
		steps[i] = &copied

		ix.stepPos[s.ID] = i
		for _, c := range ordered {
			ix.contentStep[c.ID] = i
			ix.contents[c.ID] = c
			ix.total++
		}
	}
	ix.steps = steps
	return ix
}

func (ix *Index) CourseID() uuid.UUID { return ix.courseID }
func (ix *Index) HasRoadmap() bool    { return ix.hasRoadmap }
func (ix *Index) TotalContents() int  { return ix.total }

// Steps returns the steps in ascending order. Callers must not mutate them.
func (ix *Index) Steps() []*types.Step { return ix.steps }

func (ix *Index) Step(stepID uuid.UUID) (*types.Step, bool) {
	pos, ok := ix.stepPos[stepID]
	if !ok {
		return nil, false
	}
	return ix.steps[pos], true
}

// Content resolves a content id and the step that owns it.
func (ix *Index) Content(contentID uuid.UUID) (*types.Content, *types.Step, bool) {
	pos, ok := ix.contentStep[contentID]
	if !ok {
		return nil, nil, false
	}
	return ix.contents[contentID], ix.steps[pos], true
}

// Completed is the set of content ids a learner has completed.
type Completed map[uuid.UUID]struct{}

// NewCompleted keeps only rows flagged completed.
func NewCompleted(rows []*types.Progress) Completed {
	done := make(Completed, len(rows))
	for _, p := range rows {
		if p != nil && p.IsCompleted {
			done[p.ContentID] = struct{}{}
		}
	}
	return done
}

func (c Completed) Has(contentID uuid.UUID) bool {
	_, ok := c[contentID]
	return ok
}

// With returns a copy of c that also contains contentID.
func (c Completed) With(contentID uuid.UUID) Completed {
	out := make(Completed, len(c)+1)
	for id := range c {
		out[id] = struct{}{}
	}
	out[contentID] = struct{}{}
	return out
}

// IsStepCompleted reports whether every required content of the step is done.
// A step with no required contents is complete. Unknown steps are not.
func (ix *Index) IsStepCompleted(stepID uuid.UUID, done Completed) bool {
	step, ok := ix.Step(stepID)
	if !ok {
		return false
	}
	return stepCompleted(step, done)
}

func stepCompleted(step *types.Step, done Completed) bool {
	for _, c := range step.Contents {
		if c.IsRequired && !done.Has(c.ID) {
			return false
		}
	}
	return true
}

// CanAccessStep reports whether the step is unlocked: order 1 always is,
// otherwise every required step with a smaller order must be completed.
// Prior steps are checked in ascending order and the first gap short-circuits.
func (ix *Index) CanAccessStep(stepID uuid.UUID, done Completed) bool {
	pos, ok := ix.stepPos[stepID]
	if !ok {
		return false
	}
	step := ix.steps[pos]
	if step.Order == 1 {
		return true
	}
	for _, prior := range ix.steps[:pos] {
		if prior.Order >= step.Order {
			break
		}
		if prior.IsRequired && !stepCompleted(prior, done) {
			return false
		}
	}
	return true
}

// IsCourseCompleted holds when every required step is completed. A course
// without a roadmap never completes.
func (ix *Index) IsCourseCompleted(done Completed) bool {
	if !ix.hasRoadmap {
		return false
	}
	for _, s := range ix.steps {
		if s.IsRequired && !stepCompleted(s, done) {
			return false
		}
	}
	return true
}

// CompletedCount counts contents of the course (required and optional) that are done.
func (ix *Index) CompletedCount(done Completed) int {
	n := 0
	for id := range ix.contents {
		if done.Has(id) {
			n++
		}
	}
	return n
}

// StepCounts returns completed and total content counts for one step.
func (ix *Index) StepCounts(stepID uuid.UUID, done Completed) (completed, total int) {
	step, ok := ix.Step(stepID)
	if !ok {
		return 0, 0
	}
	for _, c := range step.Contents {
		if done.Has(c.ID) {
			completed++
		}
	}
	return completed, len(step.Contents)
}

// ProgressPercentage is completed/all contents as an integer in [0,100].
// Optional contents count toward the denominator.
func (ix *Index) ProgressPercentage(done Completed) int {
	return Percentage(ix.CompletedCount(done), ix.total)
}

// NextUnlockedStepID returns the first step, in order, that is accessible and
// not yet completed. Optional steps qualify too.
func (ix *Index) NextUnlockedStepID(done Completed) (uuid.UUID, bool) {
	for _, s := range ix.steps {
		if ix.CanAccessStep(s.ID, done) && !stepCompleted(s, done) {
			return s.ID, true
		}
	}
	return uuid.Nil, false
}

// Percentage rounds completed/total*100 half to even and clamps to [0,100].
// A zero total yields 0.
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(math.RoundToEven(float64(completed) * 100 / float64(total)))
}
