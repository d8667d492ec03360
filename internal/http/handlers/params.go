package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/courseprogress-backend/internal/http/response"
)

// uuidParam writes a 400 and returns false when the path param is not a uuid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "validation", fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}
