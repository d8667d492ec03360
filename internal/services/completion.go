package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/courseprogress-backend/internal/data/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/data/repos"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

type CompleteContentRequest struct {
	CourseID          uuid.UUID
	ContentID         uuid.UUID
	TimeSpentMinutes  *int
	WatchedPercentage *int
}

type CompleteContentResponse struct {
	ProgressID        uuid.UUID `json:"progress_id"`
	StepID            uuid.UUID `json:"step_id"`
	IsStepCompleted   bool      `json:"is_step_completed"`
	IsCourseCompleted bool      `json:"is_course_completed"`
}

type VideoProgressRequest struct {
	CourseID          uuid.UUID
	ContentID         uuid.UUID
	WatchedPercentage int
	TimeSpentSeconds  int
	IsCompleted       bool
}

type VideoProgressResponse struct {
	ProgressID        uuid.UUID `json:"progress_id"`
	WatchedPercentage int       `json:"watched_percentage"`
	IsCompleted       bool      `json:"is_completed"`
	IsStepCompleted   bool      `json:"is_step_completed"`
	IsCourseCompleted bool      `json:"is_course_completed"`
}

// CompletionService is the request-facing side of the completion aggregate.
// Events are dispatched only after the aggregate has committed.
type CompletionService interface {
	CompleteContent(ctx context.Context, req CompleteContentRequest) (*CompleteContentResponse, error)
	UpdateVideoProgress(ctx context.Context, req VideoProgressRequest) (*VideoProgressResponse, error)
}

type completionService struct {
	log          *logger.Logger
	agg          domainagg.CompletionAggregate
	progressRepo repos.ProgressRepo
	dispatcher   EventDispatcher
	now          func() time.Time
}

func NewCompletionService(
	baseLog *logger.Logger,
	agg domainagg.CompletionAggregate,
	progressRepo repos.ProgressRepo,
	dispatcher EventDispatcher,
) CompletionService {
	return &completionService{
		log:          baseLog.With("service", "CompletionService"),
		agg:          agg,
		progressRepo: progressRepo,
		dispatcher:   dispatcher,
		now:          time.Now,
	}
}

func (s *completionService) CompleteContent(ctx context.Context, req CompleteContentRequest) (*CompleteContentResponse, error) {
	userID := ctxutil.UserID(ctx)
	res, err := s.agg.CompleteContent(ctx, domainagg.CompleteContentInput{
		UserID:            userID,
		CourseID:          req.CourseID,
		ContentID:         req.ContentID,
		TimeSpentMinutes:  req.TimeSpentMinutes,
		WatchedPercentage: req.WatchedPercentage,
	})
	if err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, res.Events)
	}
	s.log.Debug("content completed",
		"user_id", userID,
		"course_id", req.CourseID,
		"content_id", req.ContentID,
		"step_completed", res.IsStepCompleted,
		"course_completed", res.IsCourseCompleted,
	)
	return &CompleteContentResponse{
		ProgressID:        res.ProgressID,
		StepID:            res.StepID,
		IsStepCompleted:   res.IsStepCompleted,
		IsCourseCompleted: res.IsCourseCompleted,
	}, nil
}

// UpdateVideoProgress records playback on content the learner has already
// opened. A completing update goes through CompleteContent so gating and the
// cascade apply to it as well. Minutes are whole watched minutes; a completing
// update with less than 60 seconds watched passes nil, and since the upsert
// takes time_spent_minutes from the incoming row, a previously stored value is
// overwritten with NULL.
func (s *completionService) UpdateVideoProgress(ctx context.Context, req VideoProgressRequest) (*VideoProgressResponse, error) {
	const op = "Learning.Completion.UpdateVideoProgress"

	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeUnauthorized, op, "user is required", nil)
	}
	if req.CourseID == uuid.Nil || req.ContentID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "course id and content id are required", nil)
	}
	if req.WatchedPercentage < 0 || req.WatchedPercentage > 100 {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "watched percentage must be between 0 and 100", nil)
	}
	if req.TimeSpentSeconds < 0 {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "time spent must not be negative", nil)
	}

	dbc := dbctx.Background(ctx)
	row, err := s.progressRepo.GetByUserAndContent(dbc, userID, req.ContentID, req.CourseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeBusinessRuleViolation, op, "Progress not found; access the content first", nil)
	}

	if req.IsCompleted {
		var minutes *int
		if m := req.TimeSpentSeconds / 60; m > 0 {
			minutes = &m
		}
		pct := req.WatchedPercentage
		done, err := s.CompleteContent(ctx, CompleteContentRequest{
			CourseID:          req.CourseID,
			ContentID:         req.ContentID,
			TimeSpentMinutes:  minutes,
			WatchedPercentage: &pct,
		})
		if err != nil {
			return nil, err
		}
		return &VideoProgressResponse{
			ProgressID:        done.ProgressID,
			WatchedPercentage: pct,
			IsCompleted:       true,
			IsStepCompleted:   done.IsStepCompleted,
			IsCourseCompleted: done.IsCourseCompleted,
		}, nil
	}

	now := s.now().UTC()
	if err := s.progressRepo.UpdateFields(dbc, row.ID, map[string]interface{}{
		"watched_percentage": req.WatchedPercentage,
		"last_accessed_at":   now,
		"updated_at":         now,
	}); err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return &VideoProgressResponse{
		ProgressID:        row.ID,
		WatchedPercentage: req.WatchedPercentage,
		IsCompleted:       row.IsCompleted,
	}, nil
}
