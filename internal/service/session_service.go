package service

import (
	"context"
	"time"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/event"
	"roadmap-service/internal/grading"
	"roadmap-service/internal/models"
)

// SessionService owns the quiz attempt state machine:
// not-started -> in-progress -> {completed, expired}.
type SessionService struct {
	Tasks       TaskStore
	Submissions SubmissionStore
	Txn         TxnFunc
	Publisher   Publisher
}

func NewSessionService(tasks TaskStore, submissions SubmissionStore, txn TxnFunc, publisher Publisher) *SessionService {
	return &SessionService{
		Tasks:       tasks,
		Submissions: submissions,
		Txn:         txn,
		Publisher:   publisher,
	}
}

type StartResult struct {
	Task       *models.Task
	Submission *models.Submission
}

// StartQuiz moves a pending task to in-progress and opens the user's
// submission in one transaction. A concurrent second start loses the
// race on the submission index and surfaces as a conflict.
func (s *SessionService) StartQuiz(ctx context.Context, userID, taskID string) (*StartResult, error) {
	task, err := s.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, apperror.Forbidden("task is not assigned to this user")
	}
	switch task.Status {
	case models.TaskStatusPending:
	case models.TaskStatusInProgress:
		return nil, apperror.AlreadyStarted("quiz has already been started")
	case models.TaskStatusCompleted:
		return nil, apperror.AlreadyCompleted("quiz has already been completed")
	default:
		return nil, apperror.Internal("task has unknown status", nil)
	}

	now := time.Now().UTC()
	submission := &models.Submission{
		TaskID:         taskID,
		UserID:         userID,
		StartedAt:      now,
		Answers:        []models.SubmissionAnswer{},
		TotalQuestions: len(task.Questions),
		Status:         models.SubmissionStatusInProgress,
	}

	err = s.Txn(ctx, func(ctx context.Context) error {
		if err := s.Tasks.SetStatus(ctx, taskID, models.TaskStatusInProgress); err != nil {
			return err
		}
		if err := s.Tasks.UpsertUserSession(ctx, taskID, userID, now); err != nil {
			return err
		}
		return s.Submissions.Create(ctx, submission)
	})
	if err != nil {
		return nil, err
	}

	s.Publisher.Publish(event.QuizStarted, map[string]interface{}{
		"user_id": userID,
		"task_id": taskID,
	})

	task.Status = models.TaskStatusInProgress
	return &StartResult{Task: task, Submission: submission}, nil
}

type TimeCheck struct {
	Applicable       bool
	ShouldAutoSubmit bool
	RemainingMinutes float64
	Formatted        string
}

// CheckTimeLimit reports how much time an in-progress attempt has
// left. Expiry is detected here lazily; nothing schedules it.
func (s *SessionService) CheckTimeLimit(ctx context.Context, userID, taskID string) (*TimeCheck, error) {
	task, err := s.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, apperror.Forbidden("task is not assigned to this user")
	}

	session := task.SessionFor(userID)
	if task.Status != models.TaskStatusInProgress || session == nil || session.Completed {
		return &TimeCheck{Applicable: false}, nil
	}

	now := time.Now().UTC()
	if grading.Expired(session.StartedAt, task.TimeLimit(), now) {
		return &TimeCheck{
			Applicable:       true,
			ShouldAutoSubmit: true,
			RemainingMinutes: 0,
			Formatted:        "0:00",
		}, nil
	}
	remaining := grading.Remaining(session.StartedAt, task.TimeLimit(), now)
	return &TimeCheck{
		Applicable:       true,
		RemainingMinutes: remaining,
		Formatted:        grading.FormatClock(remaining),
	}, nil
}
