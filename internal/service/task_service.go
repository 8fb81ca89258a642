package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/generator"
	"roadmap-service/internal/models"
)

type TaskService struct {
	Tasks      TaskStore
	Categories CategoryStore
	Pools      PoolStore
	Users      UserStore
	// Rng is injected by tests for deterministic sampling; nil means
	// a fresh seeded source per generation.
	Rng *rand.Rand
}

func NewTaskService(tasks TaskStore, categories CategoryStore, pools PoolStore, users UserStore) *TaskService {
	return &TaskService{
		Tasks:      tasks,
		Categories: categories,
		Pools:      pools,
		Users:      users,
	}
}

// Generate materializes a quiz task for a user who just finished a
// category. It only ever runs inside the completion transaction, so a
// generation failure aborts the triggering lesson completion too.
func (s *TaskService) Generate(ctx context.Context, userID string, category *models.Category) (*models.Task, error) {
	pools, err := s.Pools.FindActiveByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	result, err := generator.Build(pools, category.QuestionCount(), s.Rng)
	if errors.Is(err, generator.ErrNoActivePool) {
		return nil, apperror.NoActivePool("no active question pool for this category")
	}
	if errors.Is(err, generator.ErrInsufficientQuestions) {
		return nil, apperror.InsufficientQuestions(err.Error())
	}
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:           userID,
		CategoryID:       category.ID,
		Questions:        result.Questions,
		TotalPoints:      result.TotalPoints,
		TimeLimitMinutes: models.DefaultTimeLimitMinutes,
		Status:           models.TaskStatusPending,
		// Must marshal as an empty array, not null: the session
		// upsert $pushes onto this field and $push onto a null
		// field is a server-side error.
		UserSessions: []models.TaskUserSession{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	if err := s.Users.AddTask(ctx, userID, task.ID); err != nil {
		return nil, err
	}
	if err := s.Categories.AddTask(ctx, category.ID, task.ID); err != nil {
		return nil, err
	}
	for _, poolID := range result.SourcePoolIDs {
		if err := s.Pools.AddTask(ctx, poolID, task.ID); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// GetForUser loads a task for its assigned user. The snapshot's
// correct-answer ids are never serialized to clients.
func (s *TaskService) GetForUser(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, apperror.Forbidden("task is not assigned to this user")
	}
	return task, nil
}
