package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseprogress-backend/internal/http/response"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
	"github.com/yungbote/courseprogress-backend/internal/services"
)

type EnrollmentHandler struct {
	log               *logger.Logger
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(log *logger.Logger, enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:               log.With("handler", "EnrollmentHandler"),
		enrollmentService: enrollmentService,
	}
}

// POST /api/courses/:id/enroll
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	enrollment, err := h.enrollmentService.EnrollInCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": enrollment})
}
