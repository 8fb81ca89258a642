package handlers

import (
	"net/http"

	"roadmap-service/internal/middleware"
	"roadmap-service/internal/models"
	"roadmap-service/internal/service"

	"github.com/gin-gonic/gin"
)

type GradingHandler struct {
	Service *service.GradingService
}

func NewGradingHandler(s *service.GradingService) *GradingHandler {
	return &GradingHandler{Service: s}
}

func (h *GradingHandler) SubmitQuiz(c *gin.Context) {
	userID := middleware.UserID(c)
	taskID := c.Param("id")

	var req struct {
		Answers []models.SubmissionAnswer `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.SubmitQuiz(c.Request.Context(), userID, taskID, req.Answers)
	if err != nil {
		fail(c, err)
		return
	}

	if result.Expired {
		c.JSON(http.StatusOK, gin.H{
			"success":    false,
			"status":     "expired",
			"submission": result.Submission,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"score":      result.Score,
		"maxScore":   result.MaxScore,
		"percentage": result.Percentage,
		"submission": result.Submission,
	})
}

func (h *GradingHandler) ListSubmissions(c *gin.Context) {
	userID := middleware.UserID(c)

	submissions, err := h.Service.ListUserSubmissions(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, submissions)
}
