package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseprogress-backend/internal/http/response"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
	"github.com/yungbote/courseprogress-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:             log.With("handler", "ProgressHandler"),
		progressService: progressService,
	}
}

// GET /api/courses
func (h *ProgressHandler) ListCourses(c *gin.Context) {
	courses, err := h.progressService.ListCourses(c.Request.Context())
	if err != nil {
		h.log.Error("ListCourses failed", "error", err)
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/courses/:id
func (h *ProgressHandler) GetCourse(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.progressService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /api/courses/:id/progress
func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	view, err := h.progressService.GetCourseProgress(c.Request.Context(), courseID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/enrollments?status=all|active|completed
func (h *ProgressHandler) GetUserEnrollments(c *gin.Context) {
	items, err := h.progressService.GetUserEnrollments(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": items})
}

// GET /api/progress/dashboard
func (h *ProgressHandler) GetProgressDashboard(c *gin.Context) {
	dash, err := h.progressService.GetProgressDashboard(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, dash)
}

// GET /api/steps/:id/status
func (h *ProgressHandler) GetStepStatus(c *gin.Context) {
	stepID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	st, err := h.progressService.GetStepStatus(c.Request.Context(), stepID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, st)
}
