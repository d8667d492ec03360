package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/courseprogress-backend/internal/http/response"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
	"github.com/yungbote/courseprogress-backend/internal/services"
)

type CompletionHandler struct {
	log               *logger.Logger
	completionService services.CompletionService
}

func NewCompletionHandler(log *logger.Logger, completionService services.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		log:               log.With("handler", "CompletionHandler"),
		completionService: completionService,
	}
}

type completeContentBody struct {
	CourseID          uuid.UUID `json:"course_id" binding:"required"`
	TimeSpentMinutes  *int      `json:"time_spent_minutes"`
	WatchedPercentage *int      `json:"watched_percentage"`
}

// POST /api/contents/:id/complete
func (h *CompletionHandler) CompleteContent(c *gin.Context) {
	contentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var body completeContentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	out, err := h.completionService.CompleteContent(c.Request.Context(), services.CompleteContentRequest{
		CourseID:          body.CourseID,
		ContentID:         contentID,
		TimeSpentMinutes:  body.TimeSpentMinutes,
		WatchedPercentage: body.WatchedPercentage,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

type videoProgressBody struct {
	CourseID          uuid.UUID `json:"course_id" binding:"required"`
	WatchedPercentage int       `json:"watched_percentage"`
	TimeSpentSeconds  int       `json:"time_spent_seconds"`
	IsCompleted       bool      `json:"is_completed"`
}

// POST /api/contents/:id/video-progress
func (h *CompletionHandler) UpdateVideoProgress(c *gin.Context) {
	contentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var body videoProgressBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	out, err := h.completionService.UpdateVideoProgress(c.Request.Context(), services.VideoProgressRequest{
		CourseID:          body.CourseID,
		ContentID:         contentID,
		WatchedPercentage: body.WatchedPercentage,
		TimeSpentSeconds:  body.TimeSpentSeconds,
		IsCompleted:       body.IsCompleted,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}
