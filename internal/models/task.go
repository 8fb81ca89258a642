package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskQuestion is the task's private copy of a pool question. Option
// ids are remapped at generation time so later pool edits cannot reach
// into an issued task.
type TaskQuestion struct {
	ID                   string       `bson:"id" json:"id"`
	Content              string       `bson:"content" json:"content"`
	Type                 QuestionType `bson:"type" json:"type"`
	Options              []Option     `bson:"options" json:"options"`
	CorrectAnswers       []string     `bson:"correct_answers" json:"-"`
	AllowMultipleAnswers bool         `bson:"allow_multiple_answers" json:"allow_multiple_answers"`
	Points               int          `bson:"points" json:"points"`
}

type TaskUserSession struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	StartedAt time.Time `bson:"started_at" json:"started_at"`
	Completed bool      `bson:"completed" json:"completed"`
	Score     int       `bson:"score" json:"score"`
}

const DefaultTimeLimitMinutes = 60

// Task is a generated quiz instance bound to one user and one
// category. The question snapshot is immutable once created.
type Task struct {
	ID               string            `bson:"_id,omitempty" json:"id"`
	UserID           string            `bson:"user_id" json:"user_id"`
	CategoryID       string            `bson:"category_id" json:"category_id"`
	Questions        []TaskQuestion    `bson:"questions" json:"questions"`
	TotalPoints      int               `bson:"total_points" json:"total_points"`
	TimeLimitMinutes int               `bson:"time_limit" json:"time_limit"`
	Status           TaskStatus        `bson:"status" json:"status"`
	UserSessions     []TaskUserSession `bson:"user_sessions" json:"user_sessions"`
	CreatedAt        time.Time         `bson:"created_at" json:"created_at"`
}

func (t *Task) TimeLimit() int {
	if t.TimeLimitMinutes <= 0 {
		return DefaultTimeLimitMinutes
	}
	return t.TimeLimitMinutes
}

// SessionFor returns the session record for a user, or nil.
func (t *Task) SessionFor(userID string) *TaskUserSession {
	for i := range t.UserSessions {
		if t.UserSessions[i].UserID == userID {
			return &t.UserSessions[i]
		}
	}
	return nil
}
