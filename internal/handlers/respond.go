package handlers

import (
	"log"
	"net/http"

	"roadmap-service/internal/apperror"

	"github.com/gin-gonic/gin"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindBadRequest:            http.StatusBadRequest,
	apperror.KindNotFound:              http.StatusNotFound,
	apperror.KindForbidden:             http.StatusForbidden,
	apperror.KindPrerequisiteNotMet:    http.StatusForbidden,
	apperror.KindAlreadyCompleted:      http.StatusConflict,
	apperror.KindAlreadyStarted:        http.StatusConflict,
	apperror.KindAlreadyFinalized:      http.StatusConflict,
	apperror.KindConflict:              http.StatusConflict,
	apperror.KindNoActivePool:          http.StatusUnprocessableEntity,
	apperror.KindInsufficientQuestions: http.StatusUnprocessableEntity,
	apperror.KindInternal:              http.StatusInternalServerError,
}

// fail writes the error response for a service error. Prerequisite
// failures carry the blocking entity so the UI can point at the lock.
func fail(c *gin.Context, err error) {
	appErr := apperror.AsError(err)
	status, ok := kindStatus[appErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": appErr.Message, "code": string(appErr.Kind)}
	if appErr.Blocking != nil {
		if appErr.Blocking.LessonID != "" {
			body["blockingLesson"] = appErr.Blocking.LessonID
		}
		if appErr.Blocking.CategoryID != "" {
			body["blockingCategory"] = appErr.Blocking.CategoryID
		}
		if appErr.Blocking.StageID != "" {
			body["blockingStage"] = appErr.Blocking.StageID
		}
	}
	c.JSON(status, body)
}
