package handlers

import (
	"net/http"

	"roadmap-service/internal/middleware"
	"roadmap-service/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

func (h *SessionHandler) StartQuiz(c *gin.Context) {
	userID := middleware.UserID(c)
	taskID := c.Param("id")

	result, err := h.Service.StartQuiz(c.Request.Context(), userID, taskID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Quiz started",
		"task":       result.Task,
		"submission": result.Submission,
	})
}

func (h *SessionHandler) CheckTimeLimit(c *gin.Context) {
	userID := middleware.UserID(c)
	taskID := c.Param("id")

	check, err := h.Service.CheckTimeLimit(c.Request.Context(), userID, taskID)
	if err != nil {
		fail(c, err)
		return
	}

	if !check.Applicable {
		c.JSON(http.StatusOK, gin.H{
			"shouldAutoSubmit": false,
			"timeRemaining":    nil,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shouldAutoSubmit": check.ShouldAutoSubmit,
		"timeRemaining":    check.RemainingMinutes,
		"formatted":        check.Formatted,
	})
}
