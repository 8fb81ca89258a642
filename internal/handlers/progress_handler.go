package handlers

import (
	"net/http"

	"roadmap-service/internal/middleware"
	"roadmap-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Service *service.ProgressService
}

func NewProgressHandler(s *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{Service: s}
}

func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	userID := middleware.UserID(c)
	lessonID := c.Param("id")

	result, err := h.Service.CompleteLesson(c.Request.Context(), userID, lessonID)
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{
		"message":       "Lesson completed",
		"taskGenerated": result.TaskGenerated,
	}
	if result.TaskGenerated {
		body["task"] = result.Task
	}
	c.JSON(http.StatusOK, body)
}

func (h *ProgressHandler) CheckAvailability(c *gin.Context) {
	userID := middleware.UserID(c)
	lessonID := c.Param("id")

	availability, err := h.Service.CheckLessonAvailability(c.Request.Context(), userID, lessonID)
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{"available": availability.Available}
	if !availability.Available {
		body["reason"] = availability.Reason
		if availability.BlockingLessonID != "" {
			body["blockingLesson"] = availability.BlockingLessonID
		}
		if availability.BlockingCategoryID != "" {
			body["blockingCategory"] = availability.BlockingCategoryID
		}
		if availability.BlockingStageID != "" {
			body["blockingStage"] = availability.BlockingStageID
		}
	}
	c.JSON(http.StatusOK, body)
}

func (h *ProgressHandler) Enroll(c *gin.Context) {
	userID := middleware.UserID(c)
	roadmapID := c.Param("id")

	if err := h.Service.EnrollRoadmap(c.Request.Context(), userID, roadmapID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrolled"})
}
