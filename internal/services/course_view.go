package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/courseprogress-backend/internal/data/aggregates"
	types "github.com/yungbote/courseprogress-backend/internal/domain"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/modules/learning/progress"
	"github.com/yungbote/courseprogress-backend/internal/modules/learning/video"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
)

type ContentView struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Type        types.ContentType `json:"type"`
	Order       int               `json:"order"`
	IsRequired  bool              `json:"is_required"`
	Body        string            `json:"body,omitempty"`
	LinkURL     string            `json:"link_url,omitempty"`
	EmbedURL    string            `json:"embed_url,omitempty"`
	Platform    string            `json:"platform,omitempty"`
	Metadata    datatypes.JSON    `json:"metadata,omitempty"`
}

type StepView struct {
	ID                       uuid.UUID     `json:"id"`
	Title                    string        `json:"title"`
	Description              string        `json:"description,omitempty"`
	Order                    int           `json:"order"`
	IsRequired               bool          `json:"is_required"`
	EstimatedDurationMinutes int           `json:"estimated_duration_minutes"`
	Contents                 []ContentView `json:"contents"`
}

type RoadmapView struct {
	Title                    string     `json:"title"`
	Description              string     `json:"description,omitempty"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	Steps                    []StepView `json:"steps"`
}

type EnrollmentSummary struct {
	ID          uuid.UUID  `json:"id"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// CourseDetail is the catalog page for one course as seen by the caller.
type CourseDetail struct {
	ID                       uuid.UUID          `json:"id"`
	Title                    string             `json:"title"`
	Description              string             `json:"description"`
	ThumbnailURL             string             `json:"thumbnail_url,omitempty"`
	IsActive                 bool               `json:"is_active"`
	EstimatedDurationMinutes *int               `json:"estimated_duration_minutes,omitempty"`
	StepCount                int                `json:"step_count"`
	EnrollmentCount          int64              `json:"enrollment_count"`
	CreatedAt                time.Time          `json:"created_at"`
	Roadmap                  *RoadmapView       `json:"roadmap,omitempty"`
	UserEnrollment           *EnrollmentSummary `json:"user_enrollment,omitempty"`
	ProgressPercentage       int                `json:"progress_percentage"`
}

func (s *progressService) GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error) {
	const op = "Learning.Progress.GetCourse"

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
	count, err := s.enrollmentRepo.CountByCourse(dbc, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}

	ix := progress.NewIndex(course)
	out := &CourseDetail{
		ID:              course.ID,
		Title:           course.Title,
		Description:     course.Description,
		ThumbnailURL:    course.ThumbnailURL,
		IsActive:        course.IsActive,
		StepCount:       len(ix.Steps()),
		EnrollmentCount: count,
		CreatedAt:       course.CreatedAt,
	}
	if ix.HasRoadmap() {
		rm := course.Roadmap
		est := rm.EstimatedDurationMinutes
		out.EstimatedDurationMinutes = &est
		out.Roadmap = roadmapView(rm, ix)
	}
	if enrollment != nil {
		out.UserEnrollment = &EnrollmentSummary{
			ID:          enrollment.ID,
			EnrolledAt:  enrollment.EnrolledAt,
			StartedAt:   enrollment.StartedAt,
			CompletedAt: enrollment.CompletedAt,
			IsActive:    enrollment.IsActive,
		}
		snap, err := s.engine.SnapshotFor(ctx, userID, course)
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		out.ProgressPercentage = snap.Index.ProgressPercentage(snap.Done)
	}
	return out, nil
}

func roadmapView(rm *types.Roadmap, ix *progress.Index) *RoadmapView {
	out := &RoadmapView{
		Title:                    rm.Title,
		Description:              rm.Description,
		EstimatedDurationMinutes: rm.EstimatedDurationMinutes,
		Steps:                    make([]StepView, 0, len(ix.Steps())),
	}
	for _, st := range ix.Steps() {
		sv := StepView{
			ID:                       st.ID,
			Title:                    st.Title,
			Description:              st.Description,
			Order:                    st.Order,
			IsRequired:               st.IsRequired,
			EstimatedDurationMinutes: st.EstimatedDurationMinutes,
			Contents:                 make([]ContentView, 0, len(st.Contents)),
		}
		for _, c := range st.Contents {
			sv.Contents = append(sv.Contents, contentView(c))
		}
		out.Steps = append(out.Steps, sv)
	}
	return out
}

// contentView derives embed URL and platform from the link of video contents.
// Anything else keeps whatever was stored.
func contentView(c *types.Content) ContentView {
	cv := ContentView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Type:        c.Type,
		Order:       c.Order,
		IsRequired:  c.IsRequired,
		Body:        c.Body,
		LinkURL:     c.LinkURL,
		EmbedURL:    c.EmbedURL,
		Platform:    c.Platform,
		Metadata:    c.Metadata,
	}
	if c.Type == types.ContentTypeVideoLink && c.LinkURL != "" {
		cv.EmbedURL = video.EmbedURL(c.LinkURL)
		cv.Platform = video.DetectPlatform(c.LinkURL)
	}
	return cv
}
