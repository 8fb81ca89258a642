package service

import (
	"context"
	"time"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/event"
	"roadmap-service/internal/grading"
	"roadmap-service/internal/models"
)

type GradingService struct {
	Tasks       TaskStore
	Submissions SubmissionStore
	Txn         TxnFunc
	Publisher   Publisher
	// Clock is injected by expiry tests; nil means time.Now.
	Clock func() time.Time
}

func NewGradingService(tasks TaskStore, submissions SubmissionStore, txn TxnFunc, publisher Publisher) *GradingService {
	return &GradingService{
		Tasks:       tasks,
		Submissions: submissions,
		Txn:         txn,
		Publisher:   publisher,
	}
}

func (s *GradingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

type SubmitResult struct {
	Expired    bool
	Score      int
	MaxScore   int
	Percentage int
	Submission *models.Submission
}

// SubmitQuiz grades an attempt against the task's embedded answer key.
// The time check runs before any answer is looked at: a late submission
// locks as expired with zero credit. Merge, scoring, and finalization
// land in one transaction so partial grading is never visible.
func (s *GradingService) SubmitQuiz(ctx context.Context, userID, taskID string, answers []models.SubmissionAnswer) (*SubmitResult, error) {
	task, err := s.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, apperror.Forbidden("task is not assigned to this user")
	}

	submission, err := s.Submissions.FindLatestByTaskAndUser(ctx, taskID, userID)
	created := false
	if err != nil {
		if apperror.KindOf(err) != apperror.KindNotFound {
			return nil, err
		}
		submission = s.freshSubmission(task, userID)
		created = true
	}
	if submission.IsLocked {
		return nil, apperror.AlreadyFinalized("submission is already finalized")
	}

	now := s.now()
	if grading.Expired(submission.StartedAt, task.TimeLimit(), now) {
		return s.finalizeExpired(ctx, task, submission, created, now)
	}

	merged := grading.MergeAnswers(submission.Answers, answers)
	score := grading.Evaluate(task.Questions, merged)

	submission.Answers = merged
	submission.Score = score.CorrectAnswers
	submission.CorrectAnswers = score.CorrectAnswers
	submission.TotalQuestions = score.TotalQuestions
	submission.PercentageScore = score.PercentageScore
	submission.Status = models.SubmissionStatusGraded
	submission.IsLocked = true
	submission.CompletedAt = &now
	submission.GradedAt = &now
	submission.TimeSpentSeconds = int(now.Sub(submission.StartedAt).Seconds())

	err = s.Txn(ctx, func(ctx context.Context) error {
		if err := s.persist(ctx, submission, created); err != nil {
			return err
		}
		if err := s.Tasks.CompleteUserSession(ctx, task.ID, userID, submission.Score); err != nil {
			return err
		}
		return s.Tasks.SetStatus(ctx, task.ID, models.TaskStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	s.Publisher.Publish(event.QuizSubmitted, map[string]interface{}{
		"user_id":    userID,
		"task_id":    task.ID,
		"score":      submission.Score,
		"percentage": submission.PercentageScore,
	})

	return &SubmitResult{
		Score:      submission.Score,
		MaxScore:   submission.TotalQuestions,
		Percentage: submission.PercentageScore,
		Submission: submission,
	}, nil
}

// finalizeExpired locks the attempt with zero credit. The late answers
// are never read; only the session bookkeeping is updated.
func (s *GradingService) finalizeExpired(ctx context.Context, task *models.Task, submission *models.Submission, created bool, now time.Time) (*SubmitResult, error) {
	submission.Status = models.SubmissionStatusExpired
	submission.IsLocked = true
	submission.CompletedAt = &now
	submission.TimeSpentSeconds = task.TimeLimit() * 60

	err := s.Txn(ctx, func(ctx context.Context) error {
		if err := s.persist(ctx, submission, created); err != nil {
			return err
		}
		return s.Tasks.CompleteUserSession(ctx, task.ID, submission.UserID, submission.Score)
	})
	if err != nil {
		return nil, err
	}

	s.Publisher.Publish(event.QuizExpired, map[string]interface{}{
		"user_id": submission.UserID,
		"task_id": task.ID,
	})

	return &SubmitResult{Expired: true, Submission: submission}, nil
}

func (s *GradingService) persist(ctx context.Context, submission *models.Submission, created bool) error {
	if created {
		return s.Submissions.Create(ctx, submission)
	}
	return s.Submissions.Save(ctx, submission)
}

// freshSubmission covers a submit with no prior start call. The clock
// starts at the task session if one exists, else at now.
func (s *GradingService) freshSubmission(task *models.Task, userID string) *models.Submission {
	startedAt := s.now()
	if session := task.SessionFor(userID); session != nil && !session.StartedAt.IsZero() {
		startedAt = session.StartedAt
	}
	return &models.Submission{
		TaskID:         task.ID,
		UserID:         userID,
		StartedAt:      startedAt,
		Answers:        []models.SubmissionAnswer{},
		TotalQuestions: len(task.Questions),
		Status:         models.SubmissionStatusInProgress,
	}
}

func (s *GradingService) ListUserSubmissions(ctx context.Context, userID string) ([]models.Submission, error) {
	return s.Submissions.FindByUser(ctx, userID)
}
