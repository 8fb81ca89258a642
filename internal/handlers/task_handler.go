package handlers

import (
	"net/http"

	"roadmap-service/internal/middleware"
	"roadmap-service/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	Service *service.TaskService
}

func NewTaskHandler(s *service.TaskService) *TaskHandler {
	return &TaskHandler{Service: s}
}

// GetTask returns the caller's task snapshot. Correct-answer ids are
// excluded by the model's JSON tags.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID := middleware.UserID(c)
	taskID := c.Param("id")

	task, err := h.Service.GetForUser(c.Request.Context(), userID, taskID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
