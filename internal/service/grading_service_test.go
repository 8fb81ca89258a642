package service

import (
	"context"
	"testing"
	"time"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/event"
	"roadmap-service/internal/models"
)

var quizStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// seedRunningQuiz plants an in-progress task and open submission for
// u1, started at quizStart. Question tq1 takes o1, tq2 takes {o3,o4}.
func (f *fixture) seedRunningQuiz() string {
	taskID := f.seedTask()
	f.db.tasks[taskID].Status = models.TaskStatusInProgress
	f.db.tasks[taskID].UserSessions = []models.TaskUserSession{
		{UserID: "u1", StartedAt: quizStart},
	}
	f.db.submissions["sub1"] = &models.Submission{
		ID:             "sub1",
		TaskID:         taskID,
		UserID:         "u1",
		StartedAt:      quizStart,
		Answers:        []models.SubmissionAnswer{},
		TotalQuestions: 2,
		Status:         models.SubmissionStatusInProgress,
	}
	return taskID
}

func (f *fixture) clockAt(t time.Time) {
	f.grading.Clock = func() time.Time { return t }
}

func TestSubmitQuizAllCorrect(t *testing.T) {
	f := newFixture()
	taskID := f.seedRunningQuiz()
	f.clockAt(quizStart.Add(10 * time.Minute))

	result, err := f.grading.SubmitQuiz(context.Background(), "u1", taskID, []models.SubmissionAnswer{
		{QuestionID: "tq1", SelectedOptions: []string{"o1"}},
		{QuestionID: "tq2", SelectedOptions: []string{"o4", "o3"}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.Expired {
		t.Fatal("in-time submission flagged expired")
	}
	if result.Score != 2 || result.MaxScore != 2 || result.Percentage != 100 {
		t.Errorf("score = %d/%d (%d%%), want 2/2 (100%%)", result.Score, result.MaxScore, result.Percentage)
	}

	stored := f.db.submissions["sub1"]
	if !stored.IsLocked || stored.Status != models.SubmissionStatusGraded {
		t.Errorf("stored submission locked=%v status=%q, want locked graded", stored.IsLocked, stored.Status)
	}
	if stored.TimeSpentSeconds != 600 {
		t.Errorf("time spent = %ds, want 600", stored.TimeSpentSeconds)
	}
	if f.db.tasks[taskID].Status != models.TaskStatusCompleted {
		t.Error("task not marked completed")
	}
	session := f.db.tasks[taskID].SessionFor("u1")
	if session == nil || !session.Completed || session.Score != 2 {
		t.Errorf("task session = %+v, want completed with score 2", session)
	}
	if !f.pub.has(event.QuizSubmitted) {
		t.Error("quiz submitted event not published")
	}
}

func TestSubmitQuizPartialAndWrong(t *testing.T) {
	f := newFixture()
	taskID := f.seedRunningQuiz()
	f.clockAt(quizStart.Add(5 * time.Minute))

	// tq1 wrong option, tq2 missing one of the two required answers:
	// multi-answer questions give no partial credit.
	result, err := f.grading.SubmitQuiz(context.Background(), "u1", taskID, []models.SubmissionAnswer{
		{QuestionID: "tq1", SelectedOptions: []string{"o2"}},
		{QuestionID: "tq2", SelectedOptions: []string{"o3"}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.Score != 0 || result.Percentage != 0 {
		t.Errorf("score = %d (%d%%), want 0 (0%%)", result.Score, result.Percentage)
	}
}

func TestSubmitQuizUnansweredCountsWrong(t *testing.T) {
	f := newFixture()
	taskID := f.seedRunningQuiz()
	f.clockAt(quizStart.Add(5 * time.Minute))

	result, err := f.grading.SubmitQuiz(context.Background(), "u1", taskID, []models.SubmissionAnswer{
		{QuestionID: "tq1", SelectedOptions: []string{"o1"}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.Score != 1 || result.Percentage != 50 {
		t.Errorf("score = %d (%d%%), want 1 (50%%)", result.Score, result.Percentage)
	}
}

func TestSubmitQuizExpiredZeroCredit(t *testing.T) {
	f := newFixture()
	taskID := f.seedRunningQuiz()
	f.clockAt(quizStart.Add(61 * time.Minute))

	result, err := f.grading.SubmitQuiz(context.Background(), "u1", taskID, []models.SubmissionAnswer{
		{QuestionID: "tq1", SelectedOptions: []string{"o1"}},
		{QuestionID: "tq2", SelectedOptions: []string{"o3", "o4"}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if !result.Expired {
		t.Fatal("late submission not flagged expired")
	}

	stored := f.db.submissions["sub1"]
	if stored.Status != models.SubmissionStatusExpired || !stored.IsLocked {
		t.Errorf("stored submission status=%q locked=%v, want expired locked", stored.Status, stored.IsLocked)
	}
	if stored.Score != 0 || stored.PercentageScore != 0 {
		t.Errorf("expired submission scored %d (%d%%), want zero credit", stored.Score, stored.PercentageScore)
	}
	if len(stored.Answers) != 0 {
		t.Error("late answers must not be recorded")
	}
	if stored.TimeSpentSeconds != 3600 {
		t.Errorf("time spent = %ds, want capped at 3600", stored.TimeSpentSeconds)
	}
	if !f.pub.has(event.QuizExpired) {
		t.Error("quiz expired event not published")
	}
}

func TestSubmitQuizAtExactLimitStillGrades(t *testing.T) {
	f := newFixture()
	taskID := f.seedRunningQuiz()
	f.clockAt(quizStart.Add(60 * time.Minute))

	result, err := f.grading.SubmitQuiz(context.Background(), "u1", taskID, []models.SubmissionAnswer{
		{QuestionID: "tq1", SelectedOptions: []string{"o1"}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.Expired {
		t.Error("submission exactly at the limit must still grade")
	}
	if result.Score != 1 {
		t.Errorf("score = %d, want 1", result.Score)
	}
}

func TestSubmitQuizLockedSubmission(t *testing.T) {
	f := newFixture()
	taskID := f.seedRunningQuiz()
	f.db.submissions["sub1"].IsLocked = true
	f.db.submissions["sub1"].Status = models.SubmissionStatusGraded
	f.clockAt(quizStart.Add(5 * time.Minute))

	_, err := f.grading.SubmitQuiz(context.Background(), "u1", taskID, nil)
	if apperror.KindOf(err) != apperror.KindAlreadyFinalized {
		t.Fatalf("expected already_finalized, got %v", err)
	}
}

func TestSubmitQuizMergesProgressiveAnswers(t *testing.T) {
	f := newFixture()
	taskID := f.seedRunningQuiz()
	// A prior save picked the wrong option for tq1.
	f.db.submissions["sub1"].Answers = []models.SubmissionAnswer{
		{QuestionID: "tq1", SelectedOptions: []string{"o2"}},
	}
	f.clockAt(quizStart.Add(5 * time.Minute))

	result, err := f.grading.SubmitQuiz(context.Background(), "u1", taskID, []models.SubmissionAnswer{
		{QuestionID: "tq1", SelectedOptions: []string{"o1"}},
		{QuestionID: "tq2", SelectedOptions: []string{"o3", "o4"}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.Score != 2 {
		t.Errorf("score = %d, want 2 after the resubmitted answer replaces the old one", result.Score)
	}
}

func TestSubmitQuizWithoutStartUsesSessionClock(t *testing.T) {
	f := newFixture()
	taskID := f.seedTask()
	f.db.tasks[taskID].Status = models.TaskStatusInProgress
	f.db.tasks[taskID].UserSessions = []models.TaskUserSession{
		{UserID: "u1", StartedAt: quizStart},
	}
	f.clockAt(quizStart.Add(5 * time.Minute))

	result, err := f.grading.SubmitQuiz(context.Background(), "u1", taskID, []models.SubmissionAnswer{
		{QuestionID: "tq1", SelectedOptions: []string{"o1"}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.Submission.ID == "" {
		t.Error("submission not created")
	}
	if !result.Submission.StartedAt.Equal(quizStart) {
		t.Errorf("started at %v, want session start %v", result.Submission.StartedAt, quizStart)
	}
	if result.Score != 1 {
		t.Errorf("score = %d, want 1", result.Score)
	}
}

func TestSubmitQuizWrongUser(t *testing.T) {
	f := newFixture()
	taskID := f.seedRunningQuiz()

	_, err := f.grading.SubmitQuiz(context.Background(), "u2", taskID, nil)
	if apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteCategoryCascade(t *testing.T) {
	f := newFixture()
	f.seedRoadmap()
	f.db.users["u1"].CompletedLessons = []string{"L1", "L2", "L3"}

	if err := f.catalog.DeleteCategory(context.Background(), "c1"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, ok := f.db.categories["c1"]; ok {
		t.Error("category still present")
	}
	if _, ok := f.db.lessons["L1"]; ok {
		t.Error("category lessons still present")
	}
	if _, ok := f.db.pools["p1"]; ok {
		t.Error("category pools still present")
	}
	for _, id := range f.db.stages["s1"].CategoryIDs {
		if id == "c1" {
			t.Error("stage still references deleted category")
		}
	}
	completed := f.db.users["u1"].CompletedLessons
	if len(completed) != 1 || completed[0] != "L3" {
		t.Errorf("user completed lessons = %v, want [L3]", completed)
	}
}
