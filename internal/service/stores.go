package service

import (
	"context"
	"time"

	"roadmap-service/internal/models"
)

// TxnFunc runs fn atomically: every store call made with the callback
// context commits together or not at all. db.WithTransaction is the
// production implementation; tests substitute an in-memory runner.
type TxnFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// Publisher is the fire-and-forget notification emitter.
type Publisher interface {
	Publish(eventType string, payload interface{})
}

// Store interfaces are the narrow views each service needs; the mongo
// repositories satisfy them.

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	AddRoadmap(ctx context.Context, userID, roadmapID string) error
	AddCompletedLesson(ctx context.Context, userID, lessonID string) error
	AddTask(ctx context.Context, userID, taskID string) error
	PullCompletedLessons(ctx context.Context, lessonIDs []string) error
}

type RoadmapStore interface {
	FindByID(ctx context.Context, id string) (*models.Roadmap, error)
	AddEnrolledUser(ctx context.Context, roadmapID, userID string) error
}

type StageStore interface {
	FindByRoadmap(ctx context.Context, roadmapID string) ([]models.Stage, error)
	RemoveCategory(ctx context.Context, stageID, categoryID string) error
}

type CategoryStore interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindByStage(ctx context.Context, stageID string) ([]models.Category, error)
	AddTask(ctx context.Context, categoryID, taskID string) error
	Delete(ctx context.Context, id string) error
}

type LessonStore interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	FindByCategory(ctx context.Context, categoryID string) ([]models.Lesson, error)
	AddCompletedBy(ctx context.Context, lessonID, userID string) error
	DeleteByCategory(ctx context.Context, categoryID string) error
}

type PoolStore interface {
	FindActiveByCategory(ctx context.Context, categoryID string) ([]models.QuestionPool, error)
	AddTask(ctx context.Context, poolID, taskID string) error
	DeleteByCategory(ctx context.Context, categoryID string) error
}

type TaskStore interface {
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	SetStatus(ctx context.Context, id string, status models.TaskStatus) error
	UpsertUserSession(ctx context.Context, taskID, userID string, startedAt time.Time) error
	CompleteUserSession(ctx context.Context, taskID, userID string, score int) error
}

type SubmissionStore interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindLatestByTaskAndUser(ctx context.Context, taskID, userID string) (*models.Submission, error)
	Save(ctx context.Context, submission *models.Submission) error
	FindByUser(ctx context.Context, userID string) ([]models.Submission, error)
}
