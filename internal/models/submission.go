package models

import "time"

type SubmissionStatus string

const (
	SubmissionStatusInProgress SubmissionStatus = "in-progress"
	SubmissionStatusSubmitted  SubmissionStatus = "submitted"
	SubmissionStatusGraded     SubmissionStatus = "graded"
	SubmissionStatusExpired    SubmissionStatus = "expired"
)

type SubmissionAnswer struct {
	QuestionID      string   `bson:"question_id" json:"question_id"`
	SelectedOptions []string `bson:"selected_options" json:"selected_options"`
}

// Submission records one user's attempt at one task. At most one
// unlocked submission may exist per (task, user) pair; the partial
// unique index on the collection enforces it.
type Submission struct {
	ID                   string             `bson:"_id,omitempty" json:"id"`
	TaskID               string             `bson:"task_id" json:"task_id"`
	UserID               string             `bson:"user_id" json:"user_id"`
	StartedAt            time.Time          `bson:"started_at" json:"started_at"`
	CompletedAt          *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	GradedAt             *time.Time         `bson:"graded_at,omitempty" json:"graded_at,omitempty"`
	TimeSpentSeconds     int                `bson:"time_spent_seconds" json:"time_spent_seconds"`
	Answers              []SubmissionAnswer `bson:"answers" json:"answers"`
	Score                int                `bson:"score" json:"score"`
	CorrectAnswers       int                `bson:"correct_answers" json:"correct_answers"`
	TotalQuestions       int                `bson:"total_questions" json:"total_questions"`
	PercentageScore      int                `bson:"percentage_score" json:"percentage_score"`
	IsLocked             bool               `bson:"is_locked" json:"is_locked"`
	Status               SubmissionStatus   `bson:"status" json:"status"`
	CurrentQuestionIndex int                `bson:"current_question_index" json:"current_question_index"`
}
